package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Activity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Date         int64              `bson:"date" json:"date"`
	Title        string             `bson:"title" json:"title"`
	TimeSpent    int                `bson:"timeSpent" json:"timeSpent"` // minutes
	ActivityNote string             `bson:"activityNote" json:"activityNote"`
	Category     string             `bson:"category" json:"category"`
}
