package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"serene/database"
	"serene/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type moodRequest struct {
	Date     int64    `json:"date" binding:"required"`
	Mood     *int     `json:"mood" binding:"required,min=1,max=5"`
	Activity []string `json:"activity"`
	Journal  string   `json:"journal"`
}

// CreateMood records a mood check-in. Multiple check-ins per day are
// allowed; the history view shows them all.
func CreateMood(c *gin.Context) {
	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mood data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	activity := req.Activity
	if activity == nil {
		activity = []string{}
	}

	mood := models.Mood{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		Date:     req.Date,
		Mood:     *req.Mood,
		Activity: activity,
		Journal:  req.Journal,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Moods.InsertOne(ctx, mood); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save mood"})
		return
	}

	c.JSON(http.StatusCreated, mood)
}

type moodUpdateRequest struct {
	Mood     *int     `json:"mood" binding:"omitempty,min=1,max=5"`
	Activity []string `json:"activity"`
	Journal  *string  `json:"journal"`
}

// UpdateMood edits one of the caller's check-ins. The filter includes
// the owner id so one user can never edit another's entry.
func UpdateMood(c *gin.Context) {
	moodID, err := primitive.ObjectIDFromHex(c.Param("moodId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mood ID"})
		return
	}

	var req moodUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mood data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	set := bson.M{}
	if req.Mood != nil {
		set["mood"] = *req.Mood
	}
	if req.Activity != nil {
		set["activity"] = req.Activity
	}
	if req.Journal != nil {
		set["journal"] = *req.Journal
	}
	if len(set) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Moods.UpdateOne(ctx,
		bson.M{"_id": moodID, "userId": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update mood"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mood entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mood updated"})
}

// GetAllMoods returns the caller's check-in history, newest first. An
// optional from/to window narrows it.
func GetAllMoods(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	filter := bson.M{"userId": userID}
	dateRange := bson.M{}
	if from, err := strconv.ParseInt(c.Query("from"), 10, 64); err == nil {
		dateRange["$gte"] = from
	}
	if to, err := strconv.ParseInt(c.Query("to"), 10, 64); err == nil {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Moods.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch moods"})
		return
	}
	defer cur.Close(ctx)

	moods := []models.Mood{}
	if err := cur.All(ctx, &moods); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode moods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"moods": moods})
}
