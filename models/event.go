package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Event struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Date            int64              `bson:"date" json:"date"`
	StartTime       int64              `bson:"startTime" json:"startTime"`
	EndTime         int64              `bson:"endTime" json:"endTime"`
	Title           string             `bson:"title" json:"title"`
	MeetLink        string             `bson:"meetLink" json:"meetLink"`
	MeetDescription string             `bson:"meetDescription,omitempty" json:"meetDescription,omitempty"`
}
