// Package cache holds short-lived session state in Redis: revoked session token IDs and
// one-time tokens for password reset and email verification.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"govdocs/internal/config"
	"govdocs/internal/logging"
)

const keyPrefix = "govdocs:"

// ErrTokenNotFound is returned when a one-time token is unknown, expired or already used.
var ErrTokenNotFound = errors.New("token not found")

// Redis implements the session token store on go-redis.
type Redis struct {
	rdb    redis.UniversalClient
	logger *logging.Logger
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig, logger *logging.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	c := NewWithClient(rdb, logger)
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	c.logger.Info("redis_connected", map[string]any{"redis_addr": cfg.Addr, "redis_db": cfg.DB})
	return c, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb redis.UniversalClient, logger *logging.Logger) *Redis {
	return &Redis{rdb: rdb, logger: logger.With("redis")}
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.rdb.Close()
}

func revokedKey(tokenID string) string {
	return keyPrefix + "revoked:" + tokenID
}

func oneTimeKey(purpose, token string) string {
	return keyPrefix + purpose + ":" + token
}

// Revoke marks a session token ID as revoked until ttl elapses. A non-positive ttl is a no-op
// since the token has already expired.
func (c *Redis) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.rdb.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		c.logger.Error("redis_revoke_failed", err, map[string]any{"token_id": tokenID})
		return err
	}
	return nil
}

// IsRevoked reports whether the token ID was revoked.
func (c *Redis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// PutOneTime stores a one-time token for purpose that resolves to subject until ttl elapses.
func (c *Redis) PutOneTime(ctx context.Context, purpose, token, subject string, ttl time.Duration) error {
	ok, err := c.rdb.SetNX(ctx, oneTimeKey(purpose, token), subject, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s token collision", purpose)
	}
	return nil
}

// TakeOneTime returns the subject of a one-time token and deletes it atomically.
func (c *Redis) TakeOneTime(ctx context.Context, purpose, token string) (string, error) {
	subject, err := c.rdb.GetDel(ctx, oneTimeKey(purpose, token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return subject, nil
}
