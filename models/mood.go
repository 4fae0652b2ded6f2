package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Mood struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Date     int64              `bson:"date" json:"date"`
	Mood     int                `bson:"mood" json:"mood"`
	Activity []string           `bson:"activity" json:"activity"`
	Journal  string             `bson:"journal,omitempty" json:"journal,omitempty"`
}
