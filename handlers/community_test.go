package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"serene/models"
	"serene/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeIDs(n int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, n)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	return ids
}

func TestTrendingScoreWeights(t *testing.T) {
	post := models.Post{
		Likes:    makeIDs(4),
		Comments: makeIDs(2),
		Views:    10,
	}
	// 4*0.5 + 2*0.3 + 10*0.2
	assert.InDelta(t, 4.6, trendingScore(post), 0.0001)
}

func TestTrendingScoreEmptyPost(t *testing.T) {
	assert.Zero(t, trendingScore(models.Post{}))
}

func TestTrendingScoreMonotonic(t *testing.T) {
	base := models.Post{Likes: makeIDs(1), Views: 5}

	moreLikes := base
	moreLikes.Likes = makeIDs(2)
	assert.Greater(t, trendingScore(moreLikes), trendingScore(base))

	moreComments := base
	moreComments.Comments = makeIDs(1)
	assert.Greater(t, trendingScore(moreComments), trendingScore(base))

	moreViews := base
	moreViews.Views = 6
	assert.Greater(t, trendingScore(moreViews), trendingScore(base))
}

func TestParsePagingDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/posts", nil)

	_, hasCursor, limit := parsePaging(c)
	assert.False(t, hasCursor)
	assert.Equal(t, int64(10), limit)
}

func TestParsePagingWithCursorAndLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := primitive.NewObjectID()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/posts?cursor="+id.Hex()+"&limit=25", nil)

	cursor, hasCursor, limit := parsePaging(c)
	assert.True(t, hasCursor)
	assert.Equal(t, id, cursor)
	assert.Equal(t, int64(25), limit)
}

func TestParsePagingRejectsBadValues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
	}{
		{"malformed cursor", "?cursor=not-an-id&limit=5"},
		{"zero limit", "?limit=0"},
		{"negative limit", "?limit=-3"},
		{"huge limit", "?limit=99999"},
		{"non-numeric limit", "?limit=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/posts"+tt.query, nil)

			cursor, hasCursor, limit := parsePaging(c)
			if strings.Contains(tt.query, "cursor=not-an-id") {
				assert.False(t, hasCursor)
				assert.Equal(t, primitive.NilObjectID, cursor)
				assert.Equal(t, int64(5), limit)
			} else {
				assert.Equal(t, int64(10), limit, "bad limit should fall back to the default")
			}
		})
	}
}

func TestCursorFilter(t *testing.T) {
	id := primitive.NewObjectID()

	filter := cursorFilter(nil, id, true)
	require.Contains(t, filter, "_id")
	assert.Equal(t, bson.M{"$lt": id}, filter["_id"])

	filter = cursorFilter(bson.M{"author": "x"}, primitive.NilObjectID, false)
	assert.Equal(t, bson.M{"author": "x"}, filter)
}

func TestCloudinaryPublicID(t *testing.T) {
	url := "https://res.cloudinary.com/demo/image/upload/v123/serene/profile/abc_def.jpg"
	id, ok := cloudinaryPublicID(url)
	assert.True(t, ok)
	assert.Equal(t, "serene/profile/abc_def", id)

	_, ok = cloudinaryPublicID("https://lh3.googleusercontent.com/a/photo.jpg")
	assert.False(t, ok)
}

func TestUniqueIDs(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	out := uniqueIDs([]primitive.ObjectID{a, b, a, a, b})
	assert.Equal(t, []primitive.ObjectID{a, b}, out)
}

func TestCleanContentStripsMarkup(t *testing.T) {
	h := NewCommunityHandler(websocket.NewHub())

	assert.Equal(t, "hello", h.cleanContent("  <script>alert(1)</script>hello  "))
	assert.Equal(t, "", h.cleanContent("<script>alert(1)</script>"))
	assert.Equal(t, "<b>bold</b> ok", h.cleanContent("<b>bold</b> ok"))
}

// Validation failures must answer before any store access, so these run
// without a database behind them.
func TestHandlersRejectInvalidIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := websocket.NewHub()
	community := NewCommunityHandler(hub)
	comments := NewCommentHandler(hub)

	router := gin.New()
	router.GET("/posts/:postId", community.GetPost)
	router.DELETE("/posts/:postId", community.DeletePost)
	router.POST("/posts/:postId/like", community.ToggleLike)
	router.DELETE("/comments/:commentId", comments.DeleteComment)
	router.GET("/posts/search", community.SearchPosts)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"get post bad id", http.MethodGet, "/posts/nope", http.StatusBadRequest},
		{"delete post bad id", http.MethodDelete, "/posts/123", http.StatusBadRequest},
		{"toggle like bad id", http.MethodPost, "/posts/xyz/like", http.StatusBadRequest},
		{"delete comment bad id", http.MethodDelete, "/comments/zzz", http.StatusBadRequest},
		{"search without query", http.MethodGet, "/posts/search", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSearchPostsEmptyQueryMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	community := NewCommunityHandler(websocket.NewHub())

	router := gin.New()
	router.GET("/posts/search", community.SearchPosts)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/search?query=%20%20", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Valid query parameter is required")
}

func TestCreatePostRejectsMissingBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	community := NewCommunityHandler(websocket.NewHub())

	router := gin.New()
	router.POST("/posts", community.CreatePost)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
