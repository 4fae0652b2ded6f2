package cache

import (
	"testing"
	"time"

	"serene/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUsersSetGet(t *testing.T) {
	c := NewUsers(8, time.Minute)

	id := primitive.NewObjectID()
	c.Set(id.Hex(), models.User{ID: id, FirstName: "Ada"})

	got, ok := c.Get(id.Hex())
	assert.True(t, ok)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestUsersMiss(t *testing.T) {
	c := NewUsers(8, time.Minute)

	_, ok := c.Get(primitive.NewObjectID().Hex())
	assert.False(t, ok)
}

func TestUsersRemove(t *testing.T) {
	c := NewUsers(8, time.Minute)

	id := primitive.NewObjectID()
	c.Set(id.Hex(), models.User{ID: id})
	c.Remove(id.Hex())

	_, ok := c.Get(id.Hex())
	assert.False(t, ok)
}

func TestUsersTTLExpiry(t *testing.T) {
	c := NewUsers(8, 20*time.Millisecond)

	id := primitive.NewObjectID()
	c.Set(id.Hex(), models.User{ID: id})

	time.Sleep(40 * time.Millisecond)
	_, ok := c.Get(id.Hex())
	assert.False(t, ok)
}
