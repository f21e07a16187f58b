// utils/reset_token.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const resetTokenTTL = 1 * time.Hour

// GenerateResetToken returns a short random code for the forgot-password
// email.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base32.StdEncoding.EncodeToString(bytes)[:8], nil
}

// StoreResetToken keeps the emailed code in Redis until it expires.
func StoreResetToken(rdb *redis.Client, email, token string) error {
	if rdb == nil {
		return errors.New("password reset requires Redis")
	}
	return rdb.Set(context.Background(), "pwreset:"+email, token, resetTokenTTL).Err()
}

// ConsumeResetToken validates the submitted code and burns it on success.
// Attempts are capped so the short code cannot be brute forced.
func ConsumeResetToken(rdb *redis.Client, email, token string) error {
	if rdb == nil {
		return errors.New("password reset requires Redis")
	}
	ctx := context.Background()

	attemptsKey := "pwreset_attempts:" + email
	attempts, err := rdb.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return err
	}
	if attempts == 1 {
		rdb.Expire(ctx, attemptsKey, resetTokenTTL)
	}
	if attempts > 5 {
		return errors.New("too many reset attempts")
	}

	stored, err := rdb.Get(ctx, "pwreset:"+email).Result()
	if err == redis.Nil {
		return errors.New("reset code expired or not requested")
	}
	if err != nil {
		return err
	}
	if stored != token {
		return errors.New("invalid reset code")
	}

	rdb.Del(ctx, "pwreset:"+email, attemptsKey)
	return nil
}
