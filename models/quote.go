package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Quote is a daily affirmation shown to every user on its date.
type Quote struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Text string             `bson:"text" json:"text"`
	Date int64              `bson:"date" json:"date"`
}
