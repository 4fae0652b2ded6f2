package handlers

import (
	"context"
	"net/http"
	"time"

	"serene/database"
	"serene/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ratingRequest struct {
	Stars  *int   `json:"stars" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

// RateApp stores an in-app store rating.
func RateApp(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stars must be between 1 and 5"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	rating := models.Rating{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Stars:     *req.Stars,
		Review:    req.Review,
		CreatedAt: time.Now().Unix(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Ratings.InsertOne(ctx, rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Thanks for the feedback"})
}

type feedbackRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
}

func RequestFeature(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}

	fr := models.FeatureRequest{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Email:       req.Email,
		CreatedAt:   time.Now().Unix(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.FeatureRequests.InsertOne(ctx, fr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Feature request submitted"})
}

func ReportBug(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and description are required"})
		return
	}

	br := models.BugReport{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Email:       req.Email,
		CreatedAt:   time.Now().Unix(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.BugReports.InsertOne(ctx, br); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Bug report submitted"})
}
