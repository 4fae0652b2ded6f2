package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Token is a bcrypt-hashed one-time code (email verification or password
// reset). Expired rows are purged by the daily cleanup task.
type Token struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Token     string             `bson:"token" json:"-"`
	Purpose   string             `bson:"purpose" json:"purpose"` // verify, reset
	ExpiresAt int64              `bson:"expiresAt" json:"expiresAt"`
}
