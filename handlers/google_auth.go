package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"serene/config"
	"serene/database"
	"serene/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type GoogleAuthHandler struct {
	oauth *oauth2.Config
}

// NewGoogleAuthHandler wires the Google OAuth flow. When the client
// credentials are absent the handler stays up but answers 503.
func NewGoogleAuthHandler(cfg config.Config) *GoogleAuthHandler {
	h := &GoogleAuthHandler{}
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		h.oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	} else {
		log.Println("Google OAuth not configured, /auth/google endpoints will answer 503")
	}
	return h
}

type googleUserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// GoogleAuthURL hands the frontend the consent-screen URL.
func (h *GoogleAuthHandler) GoogleAuthURL(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}
	state := primitive.NewObjectID().Hex()
	c.JSON(http.StatusOK, gin.H{"url": h.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)})
}

// GoogleCallback exchanges the authorization code, fetches the Google
// profile, and signs the user in, creating the account on first contact.
// Google accounts skip email verification since Google already did it.
func (h *GoogleAuthHandler) GoogleCallback(c *gin.Context) {
	if h.oauth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization code missing"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		log.Printf("Google token exchange failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	resp, err := h.oauth.Client(ctx, token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user information"})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read user information"})
		return
	}

	var gu googleUserInfo
	if err := json.Unmarshal(data, &gu); err != nil || gu.Email == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user information"})
		return
	}

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{
		"$or": []bson.M{{"googleId": gu.ID}, {"email": gu.Email}},
	}).Decode(&user)

	isNew := false
	switch {
	case err == mongo.ErrNoDocuments:
		now := time.Now().Unix()
		user = models.User{
			ID:                primitive.NewObjectID(),
			GoogleID:          gu.ID,
			Provider:          "google",
			FirstName:         capitalize(gu.GivenName),
			LastName:          capitalize(gu.FamilyName),
			Email:             gu.Email,
			ProfileImage:      gu.Picture,
			Role:              models.RoleUser,
			IsVerified:        true,
			SavedAffirmations: []primitive.ObjectID{},
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if _, err := database.Users.InsertOne(ctx, user); err != nil {
			log.Printf("GoogleCallback insert error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
			return
		}
		isNew = true
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	default:
		update := bson.M{"updatedAt": time.Now().Unix()}
		if user.GoogleID == "" {
			update["googleId"] = gu.ID
		}
		if user.ProfileImage == "" && gu.Picture != "" {
			update["profileImage"] = gu.Picture
			user.ProfileImage = gu.Picture
		}
		if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": update}); err != nil {
			log.Printf("GoogleCallback update error: %v", err)
		}
	}

	tokenStr, err := issueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Authentication successful",
		"token":     tokenStr,
		"user":      user,
		"isNewUser": isNew,
	})
}
