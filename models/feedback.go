package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Stars     int                `bson:"stars" json:"stars"` // 1..5
	Review    string             `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

type FeatureRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
}

type BugReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
}
