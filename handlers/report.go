package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"serene/config"
	"serene/database"
	"serene/mailer"
	"serene/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportHandler struct {
	mail *mailer.Mailer
}

func NewReportHandler(mail *mailer.Mailer) *ReportHandler {
	return &ReportHandler{mail: mail}
}

type reportRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Comments string `json:"comments"`
}

// ReportPost files a report and mails the moderator inbox. Repeated
// reports by the same user are allowed; moderators triage duplicates.
func (h *ReportHandler) ReportPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reason is required"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
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

	report := models.Report{
		ID:        primitive.NewObjectID(),
		Post:      postID,
		User:      userID,
		Reason:    req.Reason,
		Comments:  req.Comments,
		CreatedAt: time.Now().Unix(),
	}

	if _, err := database.Reports.InsertOne(ctx, report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report post"})
		return
	}

	if config.App.ModeratorsTo != "" {
		body := fmt.Sprintf(
			"A post was reported.\n\nPost: %s\nReason: %s\nComments: %s\n\nPost content:\n%s\n",
			postID.Hex(), req.Reason, req.Comments, post.Content,
		)
		h.mail.SendAsync(config.App.ModeratorsTo, "Post reported", body)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted", "report": report})
}

// GetReportsForPost lists reports for one post, newest first.
func (h *ReportHandler) GetReportsForPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Reports.Find(ctx,
		bson.M{"post": postID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}
	defer cur.Close(ctx)

	reports := []models.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
