package handlers

import (
	"context"
	"strings"

	"serene/database"
	"serene/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageLimit = 10

// authorProjection trims user documents to the summary attached to feed
// responses.
var authorProjection = bson.M{
	"_id":                  1,
	"firstName":            1,
	"profileImage":         1,
	"communityInfo.author": 1,
	"communityInfo.joined": 1,
	"isDeletedUser":        1,
}

func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// parsePaging reads the shared cursor/limit query contract. An absent or
// malformed cursor means "first page"; a bad limit falls back to 10.
func parsePaging(c *gin.Context) (primitive.ObjectID, bool, int64) {
	limit := int64(defaultPageLimit)
	if raw := c.Query("limit"); raw != "" {
		if n, ok := parsePositiveInt(raw); ok {
			limit = n
		}
	}

	cursor, err := primitive.ObjectIDFromHex(c.Query("cursor"))
	if err != nil {
		return primitive.NilObjectID, false, limit
	}
	return cursor, true, limit
}

func parsePositiveInt(s string) (int64, bool) {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
		if n > 1000 {
			return 0, false
		}
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

// cursorFilter builds the descending-id pagination filter.
func cursorFilter(base bson.M, cursor primitive.ObjectID, hasCursor bool) bson.M {
	if base == nil {
		base = bson.M{}
	}
	if hasCursor {
		base["_id"] = bson.M{"$lt": cursor}
	}
	return base
}

// loadAuthors fetches author summaries for a set of user ids. Missing
// users (deleted accounts) resolve to a tombstone summary so feeds never
// drop a post over a missing author.
func loadAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.AuthorSummary, error) {
	out := make(map[primitive.ObjectID]models.AuthorSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := database.Users.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(authorProjection),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var authors []models.AuthorSummary
	if err := cur.All(ctx, &authors); err != nil {
		return nil, err
	}
	for _, a := range authors {
		out[a.ID] = a
	}

	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = models.AuthorSummary{ID: id, FirstName: "Deleted User", IsDeletedUser: true}
		}
	}
	return out, nil
}

// cloudinaryPublicID extracts the public id from a Cloudinary delivery
// URL. Only assets under this app's folder qualify; anything else (for
// example a Google profile picture) returns false.
func cloudinaryPublicID(imageURL string) (string, bool) {
	idx := strings.Index(imageURL, "/"+profileImageFolder+"/")
	if idx < 0 {
		return "", false
	}
	id := imageURL[idx+1:]
	if dot := strings.LastIndex(id, "."); dot > 0 {
		id = id[:dot]
	}
	return id, true
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
