package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"serene/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret, userID, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWTAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("userId"),
			"role":   c.GetString("role"),
		})
	})
	return router
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	config.App.JWTSecret = "test-secret"
	router := newAuthTestRouter()

	token := signTestToken(t, "test-secret", "64f1a2b3c4d5e6f7a8b9c0d1", "user", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "64f1a2b3c4d5e6f7a8b9c0d1")
	assert.Contains(t, w.Body.String(), "user")
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	config.App.JWTSecret = "test-secret"
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareMalformedHeader(t *testing.T) {
	config.App.JWTSecret = "test-secret"
	router := newAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareExpiredToken(t *testing.T) {
	config.App.JWTSecret = "test-secret"
	router := newAuthTestRouter()

	token := signTestToken(t, "test-secret", "64f1a2b3c4d5e6f7a8b9c0d1", "user", -time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareWrongSecret(t *testing.T) {
	config.App.JWTSecret = "test-secret"
	router := newAuthTestRouter()

	token := signTestToken(t, "other-secret", "64f1a2b3c4d5e6f7a8b9c0d1", "user", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseTokenRejectsUnexpectedAlg(t *testing.T) {
	config.App.JWTSecret = "test-secret"

	// alg=none tokens must never validate.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "abc"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"moderator allowed", "moderator", http.StatusOK},
		{"user forbidden", "user", http.StatusForbidden},
		{"empty forbidden", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/admin",
				func(c *gin.Context) { c.Set("role", tt.role) },
				RequireRole("admin", "moderator"),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
