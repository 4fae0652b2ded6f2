package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"serene/config"
	"serene/database"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PushSubscription stores one browser subscription per user. Re-subscribing
// replaces the previous record.
type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID primitive.ObjectID   `bson:"userId" json:"userId"`
	Sub    webpush.Subscription `bson:"sub" json:"sub"`
}

func GetVapidPublicKey(c *gin.Context) {
	if config.App.VapidPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notifications not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": config.App.VapidPublicKey})
}

func SubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pushSub := PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
	}

	_, err := database.PushSubs.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": pushSub},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Printf("SubscribePush error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push subscription saved successfully"})
}

// NotifyUser pushes a notification to the user's subscribed browser, if
// any. It is fire-and-forget: failures are logged, and a 410 from the
// push service drops the stale subscription.
func NotifyUser(userID primitive.ObjectID, title, body string) {
	if config.App.VapidPrivateKey == "" {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub PushSubscription
		err := database.PushSubs.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
		if err == mongo.ErrNoDocuments {
			return
		}
		if err != nil {
			log.Printf("push subscription lookup failed for %s: %v", userID.Hex(), err)
			return
		}

		payload, err := json.Marshal(gin.H{
			"title": title,
			"body":  body,
			"data":  gin.H{"timestamp": time.Now().Unix()},
		})
		if err != nil {
			log.Printf("push payload marshal failed: %v", err)
			return
		}

		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      config.App.VapidSubscriber,
			VAPIDPublicKey:  config.App.VapidPublicKey,
			VAPIDPrivateKey: config.App.VapidPrivateKey,
			TTL:             30,
		})
		finishPush(ctx, userID, resp, err)
	}()
}

// finishPush releases the push service response on every path and drops
// the subscription when the service reports it gone.
func finishPush(ctx context.Context, userID primitive.ObjectID, resp *http.Response, err error) {
	if resp != nil {
		defer resp.Body.Close()
	}
	if err == nil {
		return
	}

	log.Printf("push send failed for %s: %v", userID.Hex(), err)
	if resp != nil && resp.StatusCode == http.StatusGone {
		if _, delErr := database.PushSubs.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
			log.Printf("failed to drop expired subscription: %v", delErr)
		}
	}
}
