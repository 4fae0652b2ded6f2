package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"serene/cache"
	"serene/database"
	"serene/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	cache *cache.Users
	cld   *cloudinary.Cloudinary
}

func NewUserHandler(userCache *cache.Users, cld *cloudinary.Cloudinary) *UserHandler {
	return &UserHandler{cache: userCache, cld: cld}
}

// GetProfile returns the caller's profile with saved affirmations
// resolved to their quote documents. The profile itself is served from
// the LRU when fresh.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, cached := h.cache.Get(userID.Hex())
	if !cached {
		err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
			return
		}
		h.cache.Set(userID.Hex(), user)
	}

	quotes := []models.Quote{}
	if len(user.SavedAffirmations) > 0 {
		cur, err := database.Quotes.Find(ctx, bson.M{"_id": bson.M{"$in": user.SavedAffirmations}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch affirmations"})
			return
		}
		defer cur.Close(ctx)
		if err := cur.All(ctx, &quotes); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode affirmations"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "savedAffirmations": quotes})
}

type userOnboardingRequest struct {
	Why        string             `json:"why"`
	Reminder   string             `json:"reminder"`
	DailyGoals *models.DailyGoals `json:"dailyGoals"`
}

// Onboarding records the intake answers and marks the account onboarded.
func (h *UserHandler) Onboarding(c *gin.Context) {
	var req userOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid onboarding data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	set := bson.M{
		"onboardingInfo.onboarded": true,
		"onboardingInfo.why":       req.Why,
		"onboardingInfo.reminder":  req.Reminder,
		"updatedAt":                time.Now().Unix(),
	}
	if req.DailyGoals != nil {
		set["dailyGoals"] = *req.DailyGoals
	}

	res, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save onboarding"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	h.cache.Remove(userID.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "Onboarding saved"})
}

// updateProfileRequest uses pointers so absent fields are left untouched.
type updateProfileRequest struct {
	FirstName  *string            `json:"firstName"`
	LastName   *string            `json:"lastName"`
	Phone      *string            `json:"phone"`
	DOB        *string            `json:"dob"`
	Bio        *string            `json:"bio"`
	Reminder   *string            `json:"reminder"`
	DailyGoals *models.DailyGoals `json:"dailyGoals"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	set := bson.M{}
	if req.FirstName != nil {
		set["firstName"] = capitalize(*req.FirstName)
	}
	if req.LastName != nil {
		set["lastName"] = capitalize(*req.LastName)
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.DOB != nil {
		set["dob"] = *req.DOB
	}
	if req.Bio != nil {
		set["communityInfo.bio"] = *req.Bio
	}
	if req.Reminder != nil {
		set["onboardingInfo.reminder"] = *req.Reminder
	}
	if req.DailyGoals != nil {
		set["dailyGoals"] = *req.DailyGoals
	}

	if len(set) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No changes to update"})
		return
	}
	set["updatedAt"] = time.Now().Unix()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	h.cache.Remove(userID.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password data"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	if user.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account has no password set"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"password": string(hash), "updatedAt": time.Now().Unix()}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

const profileImageFolder = "serene/profile"

// UploadPhoto stores a new profile image in Cloudinary under a random
// public id and destroys the previous one afterwards, so a failed upload
// never leaves the user without an image.
func (h *UserHandler) UploadPhoto(c *gin.Context) {
	if h.cld == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads not configured"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}
	photoFile, _, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo file provided"})
		return
	}
	defer photoFile.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	publicID := userID.Hex() + "_" + uuid.NewString()
	result, err := h.cld.Upload.Upload(ctx, photoFile, uploader.UploadParams{
		Folder:         profileImageFolder,
		PublicID:       publicID,
		Transformation: "c_limit,w_400,h_400,q_auto",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"profileImage": result.SecureURL, "updatedAt": time.Now().Unix()}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	h.destroyImage(ctx, user.ProfileImage)
	h.cache.Remove(userID.Hex())

	c.JSON(http.StatusOK, gin.H{"message": "Photo uploaded", "url": result.SecureURL})
}

func (h *UserHandler) DeletePhoto(c *gin.Context) {
	if h.cld == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads not configured"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	if user.ProfileImage == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No profile photo to delete"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"profileImage": "", "updatedAt": time.Now().Unix()}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete photo"})
		return
	}

	h.destroyImage(ctx, user.ProfileImage)
	h.cache.Remove(userID.Hex())

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}

// destroyImage removes a Cloudinary asset given its delivery URL. Images
// hosted elsewhere (Google profile pictures) are left alone.
func (h *UserHandler) destroyImage(ctx context.Context, imageURL string) {
	publicID, ok := cloudinaryPublicID(imageURL)
	if !ok {
		return
	}
	if _, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		log.Printf("failed to destroy image %s: %v", publicID, err)
	}
}
