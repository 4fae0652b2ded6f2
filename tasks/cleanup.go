package tasks

import (
	"context"
	"log"
	"time"

	"serene/database"

	"go.mongodb.org/mongo-driver/bson"
)

// StartExpiredCodeCleanup purges expired one-time codes once a day until
// ctx is cancelled. Runs once immediately so a restart never leaves stale
// codes sitting for a full day.
func StartExpiredCodeCleanup(ctx context.Context) {
	go func() {
		removeExpiredCodes(ctx)

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removeExpiredCodes(ctx)
			}
		}
	}()
}

func removeExpiredCodes(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := database.Tokens.DeleteMany(opCtx, bson.M{"expiresAt": bson.M{"$lt": time.Now().Unix()}})
	if err != nil {
		log.Printf("token cleanup failed: %v", err)
		return
	}
	if res.DeletedCount > 0 {
		log.Printf("removed %d expired one-time codes", res.DeletedCount)
	}
}
