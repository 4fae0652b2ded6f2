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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAllEvents lists scheduled group sessions, soonest first.
func GetAllEvents(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := database.Events.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

type eventRequest struct {
	Date            int64  `json:"date" binding:"required"`
	StartTime       int64  `json:"startTime" binding:"required"`
	EndTime         int64  `json:"endTime" binding:"required,gtfield=StartTime"`
	Title           string `json:"title" binding:"required"`
	MeetLink        string `json:"meetLink" binding:"required,url"`
	MeetDescription string `json:"meetDescription"`
}

// CreateEvent schedules a session. Routes gate this behind the
// moderator and admin roles.
func CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event data"})
		return
	}

	event := models.Event{
		ID:              primitive.NewObjectID(),
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Title:           req.Title,
		MeetLink:        req.MeetLink,
		MeetDescription: req.MeetDescription,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Events.InsertOne(ctx, event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func UpdateEvent(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Events.UpdateOne(ctx,
		bson.M{"_id": eventID},
		bson.M{"$set": bson.M{
			"date":            req.Date,
			"startTime":       req.StartTime,
			"endTime":         req.EndTime,
			"title":           req.Title,
			"meetLink":        req.MeetLink,
			"meetDescription": req.MeetDescription,
		}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event updated"})
}

func DeleteEvent(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Events.DeleteOne(ctx, bson.M{"_id": eventID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
