package handlers

import (
	"context"
	"fmt"
	"net/http"
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

type CommentHandler struct {
	hub      *websocket.Hub
	sanitize *bluemonday.Policy
}

func NewCommentHandler(hub *websocket.Hub) *CommentHandler {
	return &CommentHandler{
		hub:      hub,
		sanitize: bluemonday.UGCPolicy(),
	}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment attaches a comment to a post. The parent is checked
// before the insert so a comment is never written against a post that
// was already deleted.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	content := strings.TrimSpace(h.sanitize.Sanitize(req.Content))
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

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Author:    userID,
		Post:      postID,
		Content:   content,
		Likes:     []primitive.ObjectID{},
		Replies:   []primitive.ObjectID{},
		CreatedAt: time.Now().Unix(),
	}

	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	if _, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$addToSet": bson.M{"comments": comment.ID}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	authors, err := loadAuthors(ctx, []primitive.ObjectID{userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve comment"})
		return
	}
	resolved := gin.H{
		"_id":       comment.ID,
		"author":    authors[userID],
		"post":      comment.Post,
		"content":   comment.Content,
		"likes":     comment.Likes,
		"replies":   comment.Replies,
		"createdAt": comment.CreatedAt,
	}

	h.hub.Emit("commentCreated", resolved)

	if post.Author != userID {
		author := authors[userID]
		NotifyUser(post.Author, "New comment",
			fmt.Sprintf("%s commented on your post", author.CommunityInfo.Author))
	}

	c.JSON(http.StatusCreated, resolved)
}

// DeleteComment removes a comment, its replies, and the comment's entry
// in the parent post's array.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var comment models.Comment
	err = database.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}
	if comment.Author != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if _, err := database.Replies.DeleteMany(ctx, bson.M{"comment": commentID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if _, err := database.Comments.DeleteOne(ctx, bson.M{"_id": commentID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if _, err := database.Posts.UpdateOne(ctx,
		bson.M{"_id": comment.Post},
		bson.M{"$pull": bson.M{"comments": commentID}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.Status(http.StatusNoContent)
}

type replyRequest struct {
	Content string               `json:"content" binding:"required"`
	Tags    []primitive.ObjectID `json:"tags"`
}

func (h *CommentHandler) CreateReply(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	content := strings.TrimSpace(h.sanitize.Sanitize(req.Content))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var comment models.Comment
	err = database.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment"})
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = []primitive.ObjectID{}
	}

	reply := models.Reply{
		ID:        primitive.NewObjectID(),
		Author:    userID,
		Comment:   commentID,
		Content:   content,
		Tags:      tags,
		CreatedAt: time.Now().Unix(),
	}

	if _, err := database.Replies.InsertOne(ctx, reply); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reply"})
		return
	}
	if _, err := database.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID},
		bson.M{"$addToSet": bson.M{"replies": reply.ID}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reply"})
		return
	}

	authors, err := loadAuthors(ctx, []primitive.ObjectID{userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve reply"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"_id":       reply.ID,
		"author":    authors[userID],
		"comment":   reply.Comment,
		"content":   reply.Content,
		"tags":      reply.Tags,
		"createdAt": reply.CreatedAt,
	})
}

func (h *CommentHandler) DeleteReply(c *gin.Context) {
	replyID, err := primitive.ObjectIDFromHex(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reply models.Reply
	err = database.Replies.FindOne(ctx, bson.M{"_id": replyID}).Decode(&reply)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reply not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reply"})
		return
	}
	if reply.Author != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if _, err := database.Replies.DeleteOne(ctx, bson.M{"_id": replyID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reply"})
		return
	}
	if _, err := database.Comments.UpdateOne(ctx,
		bson.M{"_id": reply.Comment},
		bson.M{"$pull": bson.M{"replies": replyID}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reply"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRepliesForComment pages a comment's replies oldest-last, same
// cursor contract as the post feed.
func (h *CommentHandler) GetRepliesForComment(c *gin.Context) {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	cursor, hasCursor, limit := parsePaging(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Replies.Find(ctx,
		cursorFilter(bson.M{"comment": commentID}, cursor, hasCursor),
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch replies"})
		return
	}
	defer cur.Close(ctx)

	var replies []models.Reply
	if err := cur.All(ctx, &replies); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode replies"})
		return
	}

	authorIDs := make([]primitive.ObjectID, 0, len(replies))
	for _, r := range replies {
		authorIDs = append(authorIDs, r.Author)
	}
	authors, err := loadAuthors(ctx, uniqueIDs(authorIDs))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve replies"})
		return
	}

	resolved := make([]gin.H, 0, len(replies))
	for _, r := range replies {
		resolved = append(resolved, gin.H{
			"_id":       r.ID,
			"author":    authors[r.Author],
			"comment":   r.Comment,
			"content":   r.Content,
			"tags":      r.Tags,
			"createdAt": r.CreatedAt,
		})
	}

	var nextCursor interface{}
	if len(replies) > 0 {
		nextCursor = replies[len(replies)-1].ID.Hex()
	}

	totalReplies, err := database.Replies.CountDocuments(ctx, bson.M{"comment": commentID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count replies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"replies":      resolved,
		"nextCursor":   nextCursor,
		"totalReplies": totalReplies,
	})
}

// GetUserComments lists the caller's comments with a short summary of
// the post each one belongs to.
func (h *CommentHandler) GetUserComments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	cursor, hasCursor, limit := parsePaging(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Comments.Find(ctx,
		cursorFilter(bson.M{"author": userID}, cursor, hasCursor),
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	defer cur.Close(ctx)

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode comments"})
		return
	}

	postIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, cm := range comments {
		postIDs = append(postIDs, cm.Post)
	}

	postsByID := make(map[primitive.ObjectID]models.Post)
	if len(postIDs) > 0 {
		pc, err := database.Posts.Find(ctx, bson.M{"_id": bson.M{"$in": uniqueIDs(postIDs)}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
			return
		}
		defer pc.Close(ctx)

		var posts []models.Post
		if err := pc.All(ctx, &posts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode posts"})
			return
		}
		for _, p := range posts {
			postsByID[p.ID] = p
		}
	}

	resolved := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		doc := gin.H{
			"_id":       cm.ID,
			"post":      cm.Post,
			"content":   cm.Content,
			"likes":     cm.Likes,
			"replies":   cm.Replies,
			"createdAt": cm.CreatedAt,
		}
		if p, ok := postsByID[cm.Post]; ok {
			doc["postSummary"] = gin.H{
				"_id":     p.ID,
				"content": p.Content,
				"author":  p.Author,
			}
		}
		resolved = append(resolved, doc)
	}

	var nextCursor interface{}
	if len(comments) > 0 {
		nextCursor = comments[len(comments)-1].ID.Hex()
	}

	c.JSON(http.StatusOK, gin.H{"comments": resolved, "nextCursor": nextCursor})
}
