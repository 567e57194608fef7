package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// tokenKeyPrefix namespaces cached verification results in Redis.
const tokenKeyPrefix = "auth_token:"

// TokenCache stores the user id of already-verified bearer tokens so
// repeated requests skip signature verification. Entries expire well
// before any sane token lifetime.
type TokenCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{Client: client, TTL: ttl}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached user id for a token, if present.
func (c *TokenCache) Get(ctx context.Context, token string) (int64, bool) {
	if c == nil || c.Client == nil {
		return 0, false
	}
	val, err := c.Client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		return 0, false
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Set caches the verified user id for a token.
func (c *TokenCache) Set(ctx context.Context, token string, userID int64) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Set(ctx, tokenKey(token), strconv.FormatInt(userID, 10), c.TTL)
}
