package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"serene/config"
	"serene/database"
	"serene/mailer"
	"serene/middleware"
	"serene/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	codeTTL  = 10 * time.Minute
	tokenTTL = 24 * time.Hour
)

type AuthHandler struct {
	mail *mailer.Mailer
}

func NewAuthHandler(mail *mailer.Mailer) *AuthHandler {
	return &AuthHandler{mail: mail}
}

func issueToken(user models.User) (string, error) {
	claims := middleware.Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.App.JWTSecret))
}

// generateCode returns a 6-digit one-time code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// storeCode replaces any pending code for the user and purpose with a
// fresh bcrypt-hashed one.
func storeCode(ctx context.Context, userID primitive.ObjectID, purpose string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	if _, err := database.Tokens.DeleteMany(ctx, bson.M{"userId": userID, "purpose": purpose}); err != nil {
		return "", err
	}
	_, err = database.Tokens.InsertOne(ctx, models.Token{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Token:     string(hash),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(codeTTL).Unix(),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// checkCode verifies a submitted code against the stored hash and burns
// it on success.
func checkCode(ctx context.Context, userID primitive.ObjectID, purpose, code string) bool {
	var token models.Token
	err := database.Tokens.FindOne(ctx, bson.M{"userId": userID, "purpose": purpose}).Decode(&token)
	if err != nil {
		return false
	}
	if token.ExpiresAt < time.Now().Unix() {
		return false
	}
	if bcrypt.CompareHashAndPassword([]byte(token.Token), []byte(code)) != nil {
		return false
	}
	_, _ = database.Tokens.DeleteOne(ctx, bson.M{"_id": token.ID})
	return true
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

type signupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Signup creates an unverified account and mails a verification code.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := database.Users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	now := time.Now().Unix()
	user := models.User{
		ID:                primitive.NewObjectID(),
		Provider:          "email",
		FirstName:         capitalize(req.FirstName),
		LastName:          capitalize(req.LastName),
		Email:             email,
		Password:          string(hash),
		Role:              models.RoleUser,
		SavedAffirmations: []primitive.ObjectID{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		log.Printf("Signup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	code, err := storeCode(ctx, user.ID, "verify")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	h.mail.SendAsync(user.Email, "Verify your email",
		fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 10 minutes.\n", user.FirstName, code))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Check your email for a verification code.",
		"user":    user,
	})
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	if !checkCode(ctx, user.ID, "verify", req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"isVerified": true, "updatedAt": time.Now().Unix()}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	user.IsVerified = true
	tokenStr, err := issueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified", "token": tokenStr, "user": user})
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend code"})
		return
	}
	if user.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already verified"})
		return
	}

	code, err := storeCode(ctx, user.ID, "verify")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend code"})
		return
	}
	h.mail.SendAsync(user.Email, "Verify your email",
		fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.\n", code))

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified"})
		return
	}
	if user.IsDeletedUser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return
	}

	tokenStr, err := issueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": tokenStr, "user": user})
}

// ForgotPassword always answers 200 so the endpoint cannot be used to
// probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err == nil {
		code, codeErr := storeCode(ctx, user.ID, "reset")
		if codeErr == nil {
			h.mail.SendAsync(user.Email, "Reset your password",
				fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.\n", code))
		} else {
			log.Printf("ForgotPassword code error: %v", codeErr)
		}
	} else if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset code has been sent"})
}

type resetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": strings.ToLower(req.Email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	if !checkCode(ctx, user.ID, "reset", req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"password": string(hash), "updatedAt": time.Now().Unix()}},
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
