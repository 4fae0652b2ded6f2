package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

var (
	Users           *mongo.Collection
	Tokens          *mongo.Collection
	Posts           *mongo.Collection
	Comments        *mongo.Collection
	Replies         *mongo.Collection
	Likes           *mongo.Collection
	Bookmarks       *mongo.Collection
	Views           *mongo.Collection
	Reports         *mongo.Collection
	Moods           *mongo.Collection
	Activities      *mongo.Collection
	Events          *mongo.Collection
	Quotes          *mongo.Collection
	Ratings         *mongo.Collection
	FeatureRequests *mongo.Collection
	BugReports      *mongo.Collection
	PushSubs        *mongo.Collection
)

func ConnectDB(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database(dbName)
	Users = db.Collection("users")
	Tokens = db.Collection("tokens")
	Posts = db.Collection("posts")
	Comments = db.Collection("comments")
	Replies = db.Collection("replies")
	Likes = db.Collection("likes")
	Bookmarks = db.Collection("bookmarks")
	Views = db.Collection("views")
	Reports = db.Collection("reports")
	Moods = db.Collection("moods")
	Activities = db.Collection("activities")
	Events = db.Collection("events")
	Quotes = db.Collection("quotes")
	Ratings = db.Collection("ratings")
	FeatureRequests = db.Collection("feature_requests")
	BugReports = db.Collection("bug_reports")
	PushSubs = db.Collection("push_subscriptions")

	log.Println("Connected to MongoDB successfully")
	return nil
}

// EnsureIndexes creates the indexes the handlers rely on. Safe to run on
// every startup; Mongo ignores index specs that already exist.
func EnsureIndexes(ctx context.Context) error {
	if _, err := Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "googleId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}); err != nil {
		return err
	}

	// Text search over post and comment bodies.
	if _, err := Posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "content", Value: "text"}},
	}); err != nil {
		return err
	}
	if _, err := Comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "content", Value: "text"}},
	}); err != nil {
		return err
	}

	// At most one like and one bookmark per (user, post).
	if _, err := Likes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "post", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := Bookmarks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "post", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	if _, err := Tokens.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
	}); err != nil {
		return err
	}

	return nil
}

func DisconnectDB() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
