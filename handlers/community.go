package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"serene/database"
	"serene/models"
	"serene/websocket"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Trending is a bounded-window approximation: only the most recent
// trendingWindow posts are scored, trading global correctness for cost.
const trendingWindow = 100

const (
	likeWeight    = 0.5
	commentWeight = 0.3
	viewWeight    = 0.2
)

// CommunityHandler is the feed engine. The fan-out hub is injected at
// construction; there is no package-level channel handle.
type CommunityHandler struct {
	hub      *websocket.Hub
	sanitize *bluemonday.Policy
}

func NewCommunityHandler(hub *websocket.Hub) *CommunityHandler {
	return &CommunityHandler{
		hub:      hub,
		sanitize: bluemonday.UGCPolicy(),
	}
}

func trendingScore(p models.Post) float64 {
	return float64(len(p.Likes))*likeWeight +
		float64(len(p.Comments))*commentWeight +
		float64(p.Views)*viewWeight
}

// cleanContent sanitizes user-submitted body text. Returns "" when
// nothing survives, which callers treat as invalid input.
func (h *CommunityHandler) cleanContent(raw string) string {
	return strings.TrimSpace(h.sanitize.Sanitize(raw))
}

// resolvePosts attaches author summaries and, when asked, the comment
// documents (with their own author summaries) to a page of posts.
func resolvePosts(ctx context.Context, posts []models.Post, withComments bool) ([]gin.H, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	postIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.Author)
		postIDs = append(postIDs, p.ID)
	}

	commentsByPost := make(map[primitive.ObjectID][]models.Comment)
	if withComments && len(postIDs) > 0 {
		cur, err := database.Comments.Find(ctx,
			bson.M{"post": bson.M{"$in": postIDs}},
			options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
		)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)

		var comments []models.Comment
		if err := cur.All(ctx, &comments); err != nil {
			return nil, err
		}
		for _, cm := range comments {
			commentsByPost[cm.Post] = append(commentsByPost[cm.Post], cm)
			authorIDs = append(authorIDs, cm.Author)
		}
	}

	authors, err := loadAuthors(ctx, uniqueIDs(authorIDs))
	if err != nil {
		return nil, err
	}

	out := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		doc := gin.H{
			"_id":       p.ID,
			"author":    authors[p.Author],
			"content":   p.Content,
			"likes":     p.Likes,
			"bookmarks": p.Bookmarks,
			"views":     p.Views,
			"createdAt": p.CreatedAt,
			"updatedAt": p.UpdatedAt,
		}
		if withComments {
			resolved := make([]gin.H, 0, len(commentsByPost[p.ID]))
			for _, cm := range commentsByPost[p.ID] {
				resolved = append(resolved, gin.H{
					"_id":       cm.ID,
					"author":    authors[cm.Author],
					"post":      cm.Post,
					"content":   cm.Content,
					"likes":     cm.Likes,
					"replies":   cm.Replies,
					"createdAt": cm.CreatedAt,
				})
			}
			doc["comments"] = resolved
		} else {
			doc["comments"] = p.Comments
		}
		out = append(out, doc)
	}
	return out, nil
}

type onboardingRequest struct {
	Username string `json:"username" binding:"required"`
}

// Onboarding joins the caller to the community under a display name.
func (h *CommunityHandler) Onboarding(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"communityInfo.joined": true,
			"communityInfo.author": req.Username,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to onboard user"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User successfully onboarded to the community",
		"user": gin.H{
			"_id": userID,
			"communityInfo": gin.H{
				"joined": true,
				"author": req.Username,
			},
		},
	})
}

// GetAllPosts returns the newest-first feed page. Items strictly below
// the cursor id are returned, so concurrent inserts of newer posts never
// shift an open page.
func (h *CommunityHandler) GetAllPosts(c *gin.Context) {
	cursor, hasCursor, limit := parsePaging(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Posts.Find(ctx,
		cursorFilter(nil, cursor, hasCursor),
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	resolved, err := resolvePosts(ctx, posts, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve posts"})
		return
	}

	var nextCursor interface{}
	if len(posts) > 0 {
		nextCursor = posts[len(posts)-1].ID.Hex()
	}

	totalPosts, err := database.Posts.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      resolved,
		"nextCursor": nextCursor,
		"totalPosts": totalPosts,
	})
}

// GetTrendingPosts scores the most recent window of posts and returns the
// top of it.
func (h *CommunityHandler) GetTrendingPosts(c *gin.Context) {
	cursor, hasCursor, limit := parsePaging(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Posts.Find(ctx,
		cursorFilter(nil, cursor, hasCursor),
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(trendingWindow),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	// Stable sort keeps newest-first ordering between equal scores.
	sort.SliceStable(posts, func(i, j int) bool {
		return trendingScore(posts[i]) > trendingScore(posts[j])
	})
	if int64(len(posts)) > limit {
		posts = posts[:limit]
	}

	resolved, err := resolvePosts(ctx, posts, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve posts"})
		return
	}
	for i := range resolved {
		resolved[i]["score"] = trendingScore(posts[i])
	}

	var nextCursor interface{}
	if len(posts) > 0 {
		nextCursor = posts[len(posts)-1].ID.Hex()
	}

	c.JSON(http.StatusOK, gin.H{"posts": resolved, "nextCursor": nextCursor})
}

// GetPost fetches one post and counts the fetch as a view.
func (h *CommunityHandler) GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	resolved, err := resolvePosts(ctx, []models.Post{post}, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": resolved, "nextCursor": nil})
}

type postContentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req postContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	content := h.cleanContent(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().Unix()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Author:    userID,
		Content:   content,
		Likes:     []primitive.ObjectID{},
		Comments:  []primitive.ObjectID{},
		Bookmarks: []primitive.ObjectID{},
		Views:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Printf("CreatePost error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	resolved, err := resolvePosts(ctx, []models.Post{post}, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve post"})
		return
	}

	h.hub.Emit("postCreated", resolved[0])
	c.JSON(http.StatusCreated, resolved[0])
}

// SearchPosts runs a text-index search over post content.
func (h *CommunityHandler) SearchPosts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Valid query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Posts.Find(ctx, bson.M{"$text": bson.M{"$search": query}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "nextCursor": nil})
}

func (h *CommunityHandler) EditPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req postContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	content := h.cleanContent(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if post.Author != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	post.Content = content
	post.UpdatedAt = time.Now().Unix()

	if _, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"content": post.Content, "updatedAt": post.UpdatedAt}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	// Same author-resolved shape as postCreated, one contract for
	// listeners.
	resolved, err := resolvePosts(ctx, []models.Post{post}, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve post"})
		return
	}

	h.hub.Emit("postUpdated", resolved[0])
	c.JSON(http.StatusOK, resolved[0])
}

// DeletePost cascades across the dependent collections before removing
// the post. Children go first so no step ever references an already
// removed parent: replies, comments, likes, bookmarks, reports, views,
// then the post. The whole cascade runs inside a transaction when the
// deployment supports one; otherwise the ordered sequence runs as-is and
// partial completion is possible under failure.
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if post.Author != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := deletePostCascade(ctx, postID); err != nil {
		log.Printf("DeletePost cascade error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	h.hub.Emit("postDeleted", postID.Hex())
	c.Status(http.StatusNoContent)
}

func deletePostCascade(ctx context.Context, postID primitive.ObjectID) error {
	session, err := database.Client.StartSession()
	if err != nil {
		return cascadeSteps(ctx, postID)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, cascadeSteps(sc, postID)
	})
	if err != nil {
		// Standalone deployments reject multi-document transactions; the
		// ordered cascade still holds, it just loses atomicity.
		log.Printf("cascade transaction unavailable, running ordered deletes: %v", err)
		return cascadeSteps(ctx, postID)
	}
	return nil
}

func cascadeSteps(ctx context.Context, postID primitive.ObjectID) error {
	cur, err := database.Comments.Find(ctx,
		bson.M{"post": postID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return err
	}

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return err
	}
	commentIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, cm := range comments {
		commentIDs = append(commentIDs, cm.ID)
	}

	if len(commentIDs) > 0 {
		if _, err := database.Replies.DeleteMany(ctx, bson.M{"comment": bson.M{"$in": commentIDs}}); err != nil {
			return err
		}
	}
	if _, err := database.Comments.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return err
	}
	if _, err := database.Likes.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return err
	}
	if _, err := database.Bookmarks.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return err
	}
	if _, err := database.Reports.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return err
	}
	if _, err := database.Views.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return err
	}
	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		return err
	}
	return nil
}

// ToggleLike removes the caller's like when one exists and creates one
// otherwise. The join record is removed with a single FindOneAndDelete
// and the denormalized array is maintained with $addToSet/$pull, so each
// side of the toggle is one atomic store operation.
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	h.togglePostRelation(c, database.Likes, "likes", "postLiked")
}

func (h *CommunityHandler) ToggleBookmark(c *gin.Context) {
	h.togglePostRelation(c, database.Bookmarks, "bookmarks", "postBookmarked")
}

func (h *CommunityHandler) togglePostRelation(c *gin.Context, coll *mongo.Collection, field, event string) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID format"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	var existing models.Like
	err = coll.FindOneAndDelete(ctx, bson.M{"user": userID, "post": postID}).Decode(&existing)

	active := false
	switch {
	case err == mongo.ErrNoDocuments:
		record := models.Like{ID: primitive.NewObjectID(), User: userID, Post: postID}
		if _, err := coll.InsertOne(ctx, record); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle " + field})
			return
		}
		if _, err := database.Posts.UpdateOne(ctx,
			bson.M{"_id": postID},
			bson.M{"$addToSet": bson.M{field: record.ID}},
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle " + field})
			return
		}
		active = true
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle " + field})
		return
	default:
		if _, err := database.Posts.UpdateOne(ctx,
			bson.M{"_id": postID},
			bson.M{"$pull": bson.M{field: existing.ID}},
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle " + field})
			return
		}
	}

	var post models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	switch event {
	case "postLiked":
		h.hub.Emit(event, gin.H{"postId": post.ID, "likes": post.Likes, "likedByUser": active})
		c.JSON(http.StatusOK, gin.H{"message": "Like toggled successfully", "post": post})
	default:
		h.hub.Emit(event, gin.H{"postId": post.ID, "bookmarks": post.Bookmarks, "bookmarkedByUser": active})
		c.JSON(http.StatusOK, gin.H{"message": "Bookmark toggled successfully", "post": post})
	}
}

// AddView records a view. Views are never deduplicated: every call adds a
// record and bumps the counter.
func (h *CommunityHandler) AddView(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add view"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	view := models.View{ID: primitive.NewObjectID(), User: userID, Post: postID}
	if _, err := database.Views.InsertOne(ctx, view); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add view"})
		return
	}

	h.hub.Emit("postViewed", gin.H{"postId": postID.Hex(), "userId": userID.Hex()})
	c.JSON(http.StatusOK, gin.H{"message": "View added"})
}

// GetUserPosts pages through the caller's own posts.
func (h *CommunityHandler) GetUserPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	cursor, hasCursor, limit := parsePaging(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Posts.Find(ctx,
		cursorFilter(bson.M{"author": userID}, cursor, hasCursor),
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
		return
	}

	resolved, err := resolvePosts(ctx, posts, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve posts"})
		return
	}

	var nextCursor interface{}
	if len(posts) > 0 {
		nextCursor = posts[len(posts)-1].ID.Hex()
	}

	c.JSON(http.StatusOK, gin.H{"posts": resolved, "nextCursor": nextCursor})
}

func (h *CommunityHandler) GetUserLikedPosts(c *gin.Context) {
	h.pagedRelationPosts(c, database.Likes)
}

func (h *CommunityHandler) GetUserBookmarkedPosts(c *gin.Context) {
	h.pagedRelationPosts(c, database.Bookmarks)
}

// pagedRelationPosts pages the caller's join records (likes or bookmarks)
// and resolves the posts they point at. The cursor is the last join
// record's id, matching the _id < cursor contract of the query itself.
func (h *CommunityHandler) pagedRelationPosts(c *gin.Context, coll *mongo.Collection) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	cursor, hasCursor, limit := parsePaging(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := coll.Find(ctx,
		cursorFilter(bson.M{"user": userID}, cursor, hasCursor),
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch records"})
		return
	}
	defer cur.Close(ctx)

	var records []models.Like
	if err := cur.All(ctx, &records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode records"})
		return
	}

	postIDs := make([]primitive.ObjectID, 0, len(records))
	for _, r := range records {
		postIDs = append(postIDs, r.Post)
	}

	posts := []models.Post{}
	if len(postIDs) > 0 {
		pc, err := database.Posts.Find(ctx,
			bson.M{"_id": bson.M{"$in": postIDs}},
			options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
			return
		}
		defer pc.Close(ctx)
		if err := pc.All(ctx, &posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
			return
		}
	}

	resolved, err := resolvePosts(ctx, posts, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve posts"})
		return
	}

	var nextCursor interface{}
	if len(records) > 0 {
		nextCursor = records[len(records)-1].ID.Hex()
	}

	c.JSON(http.StatusOK, gin.H{"posts": resolved, "nextCursor": nextCursor})
}
