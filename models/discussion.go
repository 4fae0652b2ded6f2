package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Post keeps denormalized id arrays for its likes, comments and bookmarks.
// The join collections are the source records; the arrays are caches that
// every toggle keeps in sync with $addToSet/$pull updates.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Content   string               `bson:"content" json:"content"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []primitive.ObjectID `bson:"comments" json:"comments"`
	Bookmarks []primitive.ObjectID `bson:"bookmarks" json:"bookmarks"`
	Views     int64                `bson:"views" json:"views"`
	CreatedAt int64                `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64                `bson:"updatedAt" json:"updatedAt"`
}

type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Post      primitive.ObjectID   `bson:"post" json:"post"`
	Content   string               `bson:"content" json:"content"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Replies   []primitive.ObjectID `bson:"replies" json:"replies"`
	CreatedAt int64                `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64                `bson:"updatedAt" json:"updatedAt"`
}

type Reply struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Comment   primitive.ObjectID   `bson:"comment" json:"comment"`
	Content   string               `bson:"content" json:"content"`
	Tags      []primitive.ObjectID `bson:"tags" json:"tags"` // users tagged in the reply
	CreatedAt int64                `bson:"createdAt" json:"createdAt"`
}

type Like struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User primitive.ObjectID `bson:"user" json:"user"`
	Post primitive.ObjectID `bson:"post" json:"post"`
}

type Bookmark struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User primitive.ObjectID `bson:"user" json:"user"`
	Post primitive.ObjectID `bson:"post" json:"post"`
}

// View records are never deduplicated; every view inserts a new one.
type View struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User primitive.ObjectID `bson:"user" json:"user"`
	Post primitive.ObjectID `bson:"post" json:"post"`
}

type Report struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Post      primitive.ObjectID `bson:"post" json:"post"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Reason    string             `bson:"reason" json:"reason"`
	Comments  string             `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
