package handlers

import (
	"context"
	"net/http"
	"time"

	"serene/database"
	"serene/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type activityRequest struct {
	Date         int64  `json:"date" binding:"required"`
	Title        string `json:"title" binding:"required"`
	TimeSpent    int    `json:"timeSpent" binding:"required,min=1"`
	ActivityNote string `json:"activityNote"`
	Category     string `json:"category" binding:"required"`
}

// SaveActivity records a completed wellness activity.
func SaveActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	activity := models.Activity{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Date:         req.Date,
		Title:        req.Title,
		TimeSpent:    req.TimeSpent,
		ActivityNote: req.ActivityNote,
		Category:     req.Category,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Activities.InsertOne(ctx, activity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save activity"})
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// groupByCategory buckets activities by category keeping each bucket's
// insertion order.
func groupByCategory(activities []models.Activity) gin.H {
	grouped := gin.H{}
	for _, a := range activities {
		key := a.Category
		if key == "" {
			key = "uncategorized"
		}
		bucket, _ := grouped[key].([]models.Activity)
		grouped[key] = append(bucket, a)
	}
	return grouped
}

// GetUserActivities returns the caller's activity history grouped by
// category.
func GetUserActivities(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Activities.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
		return
	}
	defer cur.Close(ctx)

	activities := []models.Activity{}
	if err := cur.All(ctx, &activities); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": groupByCategory(activities)})
}

// GetTodayAffirmation returns the quote dated inside the current UTC day.
func GetTodayAffirmation(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Unix()
	dayEnd := dayStart + 24*60*60

	var quote models.Quote
	err := database.Quotes.FindOne(ctx, bson.M{
		"date": bson.M{"$gte": dayStart, "$lt": dayEnd},
	}).Decode(&quote)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "No affirmation for today"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch affirmation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"affirmation": quote})
}

// SaveAffirmation bookmarks a quote on the caller's profile. Saving the
// same quote twice answers 400.
func SaveAffirmation(c *gin.Context) {
	quoteID, err := primitive.ObjectIDFromHex(c.Param("quoteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid affirmation ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.Quotes.FindOne(ctx, bson.M{"_id": quoteID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Affirmation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save affirmation"})
		return
	}

	res, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"savedAffirmations": quoteID}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save affirmation"})
		return
	}
	if res.ModifiedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Affirmation already saved"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Affirmation saved"})
}

func DeleteSavedAffirmation(c *gin.Context) {
	quoteID, err := primitive.ObjectIDFromHex(c.Param("quoteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid affirmation ID"})
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
		bson.M{"$pull": bson.M{"savedAffirmations": quoteID}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove affirmation"})
		return
	}
	if res.ModifiedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Affirmation not in saved list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Affirmation removed"})
}
