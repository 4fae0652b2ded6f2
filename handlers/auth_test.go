package handlers

import (
	"testing"

	"serene/config"
	"serene/middleware"
	"serene/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueTokenRoundTrip(t *testing.T) {
	config.App.JWTSecret = "test-secret"

	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleModerator}
	tokenStr, err := issueToken(user)
	require.NoError(t, err)

	claims, err := middleware.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleModerator, claims.Role)
}

func TestGenerateCodeFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 50 draws from a million values colliding every time would mean a
	// broken generator.
	assert.Greater(t, len(seen), 1)
}
