package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contacts_api/internal/model"

	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// Client is the subset of the redis client used by the cache
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// userSnapshot is the cached form of a user. Credentials are never cached.
type userSnapshot struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Avatar    *string    `json:"avatar"`
	Confirmed bool       `json:"confirmed"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserCache stores user snapshots in redis keyed by email
type UserCache struct {
	client Client
	ttl    time.Duration
}

// NewUserCache creates a new UserCache
func NewUserCache(client Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Get returns the cached user or nil on a miss
func (c *UserCache) Get(ctx context.Context, email string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKeyPrefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read user cache: %w", err)
	}

	var snap userSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode cached user: %w", err)
	}
	return &model.User{
		ID:        snap.ID,
		Username:  snap.Username,
		Email:     snap.Email,
		Avatar:    snap.Avatar,
		Confirmed: snap.Confirmed,
		Role:      snap.Role,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}, nil
}

// Set stores the user snapshot for the configured TTL
func (c *UserCache) Set(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(userSnapshot{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Confirmed: user.Confirmed,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := c.client.Set(ctx, userKeyPrefix+user.Email, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write user cache: %w", err)
	}
	return nil
}
