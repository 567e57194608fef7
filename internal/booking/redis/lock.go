package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis serializes booking mutations per room. The lock is advisory: the
// database transaction is what actually guards capacity, the lock just
// keeps concurrent mutations of the same room from burning transaction
// retries. TTL bounds how long a crashed holder can block a room.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{Client: client, TTL: ttl}
}

func roomKey(roomID int64) string {
	return fmt.Sprintf("room_lock:%d", roomID)
}

// LockRoom takes the room's mutation lock for the given owner.
func (r *Redis) LockRoom(ctx context.Context, roomID int64, owner string) (bool, error) {
	return r.Client.SetNX(ctx, roomKey(roomID), owner, r.TTL).Result()
}

// UnlockRoom releases the lock if the owner still holds it. A lock that
// expired and was re-taken by someone else is left alone.
func (r *Redis) UnlockRoom(ctx context.Context, roomID int64, owner string) error {
	key := roomKey(roomID)
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already unlocked
	}
	if err != nil {
		return err
	}
	if val == owner {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
