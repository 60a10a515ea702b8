package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPersistence implements Persistence using a single Redis key.
type redisPersistence struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// Save implements Persistence.
func (p *redisPersistence) Save(ctx context.Context, s *Session) error {
	val, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, p.key, string(val), p.ttl).Err()
}

// Load implements Persistence.
func (p *redisPersistence) Load(ctx context.Context) (*Session, error) {
	val, err := p.client.Get(ctx, p.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, err
	}

	// Refresh TTL on read
	_ = p.client.Expire(ctx, p.key, p.ttl).Err()

	return &s, nil
}

// Clear implements Persistence.
func (p *redisPersistence) Clear(ctx context.Context) error {
	return p.client.Del(ctx, p.key).Err()
}

// Close implements Persistence.
func (p *redisPersistence) Close() error {
	return p.client.Close()
}
