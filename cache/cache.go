package cache

import (
	"time"

	"serene/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Users is an in-process TTL cache for profile reads. Writes to a profile
// must call Remove so the next read repopulates from the store.
type Users struct {
	lru *expirable.LRU[string, models.User]
}

func NewUsers(size int, ttl time.Duration) *Users {
	return &Users{lru: expirable.NewLRU[string, models.User](size, nil, ttl)}
}

func (c *Users) Get(id string) (models.User, bool) {
	return c.lru.Get(id)
}

func (c *Users) Set(id string, user models.User) {
	c.lru.Add(id, user)
}

func (c *Users) Remove(id string) {
	c.lru.Remove(id)
}
