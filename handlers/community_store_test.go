package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"serene/database"
	"serene/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// wireTestCollections points the package-level handles at the mock
// deployment so handlers run against scripted command responses.
func wireTestCollections(mt *mtest.T) {
	db := mt.Coll.Database()
	database.Users = db.Collection("users")
	database.Posts = db.Collection("posts")
	database.Comments = db.Collection("comments")
	database.Replies = db.Collection("replies")
	database.Likes = db.Collection("likes")
	database.Bookmarks = db.Collection("bookmarks")
	database.Views = db.Collection("views")
	database.Reports = db.Collection("reports")
	database.PushSubs = db.Collection("push_subscriptions")
}

func postDoc(postID, authorID primitive.ObjectID, likes bson.A, views int64) bson.D {
	return bson.D{
		{Key: "_id", Value: postID},
		{Key: "author", Value: authorID},
		{Key: "content", Value: "breathing helped today"},
		{Key: "likes", Value: likes},
		{Key: "comments", Value: bson.A{}},
		{Key: "bookmarks", Value: bson.A{}},
		{Key: "views", Value: views},
		{Key: "createdAt", Value: int64(1700000000)},
		{Key: "updatedAt", Value: int64(1700000000)},
	}
}

func authorDoc(authorID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: authorID},
		{Key: "firstName", Value: "Ada"},
		{Key: "profileImage", Value: ""},
		{Key: "communityInfo", Value: bson.D{
			{Key: "joined", Value: true},
			{Key: "author", Value: "ada"},
		}},
		{Key: "isDeletedUser", Value: false},
	}
}

func updateOK() bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: 1},
		bson.E{Key: "nModified", Value: 1},
	)
}

func deleteOK(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n})
}

// deleteTargets extracts, in order, the collections the recorded delete
// commands ran against.
func deleteTargets(mt *mtest.T) []string {
	targets := []string{}
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == "delete" {
			targets = append(targets, evt.Command.Lookup("delete").StringValue())
		}
	}
	return targets
}

func commandNames(mt *mtest.T) []string {
	names := []string{}
	for _, evt := range mt.GetAllStartedEvents() {
		switch evt.CommandName {
		case "find", "findAndModify", "insert", "update", "delete":
			names = append(names, evt.CommandName)
		}
	}
	return names
}

func findCommand(mt *mtest.T, name string) (string, bool) {
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == name {
			return evt.Command.String(), true
		}
	}
	return "", false
}

func newStoreTestRouter(uid primitive.ObjectID) (*gin.Engine, *CommunityHandler, *CommentHandler) {
	gin.SetMode(gin.TestMode)
	hub := websocket.NewHub()
	community := NewCommunityHandler(hub)
	comments := NewCommentHandler(hub)

	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("userId", uid.Hex()) })
	return router, community, comments
}

// Toggling a like twice must return the post to its starting state: the
// first call inserts a join record and $addToSet's the array, the second
// removes the record and $pull's the same array, with no insert.
func TestToggleLikeInvolution(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("toggle on then off", func(mt *mtest.T) {
		wireTestCollections(mt)

		uid := primitive.NewObjectID()
		postID := primitive.NewObjectID()
		likeID := primitive.NewObjectID()

		router, community, _ := newStoreTestRouter(uid)
		router.POST("/:postId/like", community.ToggleLike)

		// On: post exists, no join record yet, insert + $addToSet.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "serene.posts", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: postID}}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateSuccessResponse(),
			updateOK(),
			mtest.CreateCursorResponse(0, "serene.posts", mtest.FirstBatch,
				postDoc(postID, uid, bson.A{likeID}, 0)),
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/"+postID.Hex()+"/like", nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Like toggled successfully")

		names := commandNames(mt)
		assert.Contains(t, names, "insert")
		updateCmd, ok := findCommand(mt, "update")
		require.True(t, ok)
		assert.Contains(t, updateCmd, "$addToSet")

		mt.ClearEvents()

		// Off: the join record exists, it is removed and the array is
		// pulled; nothing is inserted.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "serene.posts", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: postID}}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "_id", Value: likeID},
				{Key: "user", Value: uid},
				{Key: "post", Value: postID},
			}}),
			updateOK(),
			mtest.CreateCursorResponse(0, "serene.posts", mtest.FirstBatch,
				postDoc(postID, uid, bson.A{}, 0)),
		)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/"+postID.Hex()+"/like", nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		names = commandNames(mt)
		assert.NotContains(t, names, "insert")
		updateCmd, ok = findCommand(mt, "update")
		require.True(t, ok)
		assert.Contains(t, updateCmd, "$pull")
	})
}

// Fetching one post runs exactly one findAndModify that $inc's views by 1.
func TestGetPostIncrementsViewsOnce(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("view counted on fetch", func(mt *mtest.T) {
		wireTestCollections(mt)

		uid := primitive.NewObjectID()
		postID := primitive.NewObjectID()
		authorID := primitive.NewObjectID()

		router, community, _ := newStoreTestRouter(uid)
		router.GET("/:postId", community.GetPost)

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "value", Value: postDoc(postID, authorID, bson.A{}, 6)}),
			mtest.CreateCursorResponse(0, "serene.comments", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "serene.users", mtest.FirstBatch, authorDoc(authorID)),
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+postID.Hex(), nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"views":6`)

		incs := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "findAndModify" {
				incs++
				cmd := evt.Command.String()
				assert.Contains(t, cmd, "$inc")
				assert.Contains(t, cmd, "views")
			}
		}
		assert.Equal(t, 1, incs)
	})
}

// The cascade sweeps every dependent collection, children before the
// post itself.
func TestCascadeStepsSweepsDependentsInOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ordered cascade", func(mt *mtest.T) {
		wireTestCollections(mt)

		postID := primitive.NewObjectID()
		c1, c2 := primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "serene.comments", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: c1}},
				bson.D{{Key: "_id", Value: c2}}),
			deleteOK(3), // replies
			deleteOK(2), // comments
			deleteOK(4), // likes
			deleteOK(1), // bookmarks
			deleteOK(1), // reports
			deleteOK(9), // views
			deleteOK(1), // post
		)

		require.NoError(t, cascadeSteps(context.Background(), postID))

		assert.Equal(t,
			[]string{"replies", "comments", "likes", "bookmarks", "reports", "views", "posts"},
			deleteTargets(mt))
	})
}

// Deleting a comment removes its replies and pulls the comment id out of
// the parent post's array.
func TestDeleteCommentSweepsRepliesAndParentArray(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("comment cascade", func(mt *mtest.T) {
		wireTestCollections(mt)

		uid := primitive.NewObjectID()
		postID := primitive.NewObjectID()
		commentID := primitive.NewObjectID()

		router, _, comments := newStoreTestRouter(uid)
		router.DELETE("/:commentId/comment", comments.DeleteComment)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "serene.comments", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: commentID},
				{Key: "author", Value: uid},
				{Key: "post", Value: postID},
				{Key: "content", Value: "same here"},
				{Key: "likes", Value: bson.A{}},
				{Key: "replies", Value: bson.A{}},
				{Key: "createdAt", Value: int64(1700000000)},
			}),
			deleteOK(2), // replies
			deleteOK(1), // the comment
			updateOK(),  // $pull from post.comments
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/"+commentID.Hex()+"/comment", nil))
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		assert.Equal(t, []string{"replies", "comments"}, deleteTargets(mt))

		updateCmd, ok := findCommand(mt, "update")
		require.True(t, ok)
		assert.Contains(t, updateCmd, "$pull")
		assert.Contains(t, updateCmd, "comments")
	})
}

// Editing a post answers (and broadcasts) the author-resolved shape, the
// same contract as creation.
func TestEditPostReturnsResolvedAuthor(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("resolved edit payload", func(mt *mtest.T) {
		wireTestCollections(mt)

		uid := primitive.NewObjectID()
		postID := primitive.NewObjectID()

		router, community, _ := newStoreTestRouter(uid)
		router.PUT("/edit-post/:postId", community.EditPost)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "serene.posts", mtest.FirstBatch,
				postDoc(postID, uid, bson.A{}, 0)),
			updateOK(),
			mtest.CreateCursorResponse(0, "serene.comments", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "serene.users", mtest.FirstBatch, authorDoc(uid)),
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/edit-post/"+postID.Hex(),
			strings.NewReader(`{"content":"updated entry"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"firstName":"Ada"`)
		assert.Contains(t, w.Body.String(), "updated entry")
	})
}
