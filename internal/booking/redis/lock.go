// Package redis serializes the confirm+overlap-resolve sequence per
// property. Two bookings for overlapping dates must not both reach CONFIRMED
// just because their confirmations interleaved; the lock is the
// serialization point.
package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		Logger: log.Default(),
	}
}

// getConfirmLockDuration returns the lock TTL from the environment or the
// default. The TTL is a liveness guard: a crashed confirmer must not hold a
// property forever.
func (r *Redis) getConfirmLockDuration() time.Duration {
	defaultDuration := 30 * time.Second

	ttlStr := os.Getenv("CONFIRM_LOCK_TTL_SECONDS")
	if ttlStr == "" {
		return defaultDuration
	}

	ttlSec, err := strconv.Atoi(ttlStr)
	if err != nil {
		r.Logger.Println("REDIS: Invalid CONFIRM_LOCK_TTL_SECONDS value '" + ttlStr + "', using default 30 seconds")
		return defaultDuration
	}
	return time.Duration(ttlSec) * time.Second
}

func lockKey(propertyID string) string {
	return "booking_confirm_lock:" + propertyID
}

// LockProperty takes the confirm lock for a property. The token identifies
// the holder so only the taker can release it.
func (r *Redis) LockProperty(propertyID, token string) (bool, error) {
	ok, err := r.Client.SetNX(context.Background(), lockKey(propertyID), token, r.getConfirmLockDuration()).Result()
	return ok, err
}

// UnlockProperty releases the confirm lock if it is still held by token.
func (r *Redis) UnlockProperty(propertyID, token string) error {
	ctx := context.Background()
	key := lockKey(propertyID)

	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // TTL already released it
	}
	if err != nil {
		return err
	}
	if val == token {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	r.Logger.Println(fmt.Sprintf("REDIS: not releasing confirm lock for property %s, held by another token", propertyID))
	return nil
}
