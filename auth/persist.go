package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Persistence stores the session between runs so a restart restores prior
// login state without user action. It holds at most one session; the
// identity provider remains the authority on whether that session is still
// valid.
type Persistence interface {
	// Save persists the session, replacing any previous one.
	Save(ctx context.Context, s *Session) error

	// Load retrieves the persisted session.
	// Returns nil if no session is persisted (not an error).
	Load(ctx context.Context) (*Session, error)

	// Clear removes the persisted session.
	Clear(ctx context.Context) error

	// Close closes the store and releases any resources.
	Close() error
}

// PersistenceType represents the type of session persistence.
type PersistenceType string

const (
	PersistenceMemory PersistenceType = "memory"
	PersistenceRedis  PersistenceType = "redis"
)

// PersistenceOption is a functional option for configuring session
// persistence.
type PersistenceOption func(*persistenceConfig)

// persistenceConfig holds configuration for persistence drivers.
type persistenceConfig struct {
	redisClient *redis.Client
	redisKey    string
	redisTTL    time.Duration
}

// WithRedisClient sets the Redis client for the Redis driver.
func WithRedisClient(client *redis.Client) PersistenceOption {
	return func(c *persistenceConfig) {
		c.redisClient = client
	}
}

// WithRedisKey sets the Redis key the session is stored under.
func WithRedisKey(key string) PersistenceOption {
	return func(c *persistenceConfig) {
		c.redisKey = key
	}
}

// WithRedisTTL sets the TTL for the Redis key.
func WithRedisTTL(ttl time.Duration) PersistenceOption {
	return func(c *persistenceConfig) {
		c.redisTTL = ttl
	}
}

// NewPersistence creates session persistence based on the given type.
// Supports "memory" and "redis" driver types.
// For Redis, requires WithRedisClient option.
func NewPersistence(driver PersistenceType, opts ...PersistenceOption) (Persistence, error) {
	config := &persistenceConfig{}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	switch driver {
	case PersistenceMemory:
		return &memoryPersistence{}, nil

	case PersistenceRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		key := config.redisKey
		if key == "" {
			key = "storefront:session"
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisPersistence{
			client: config.redisClient,
			key:    key,
			ttl:    ttl,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

// memoryPersistence implements Persistence with an in-memory slot.
type memoryPersistence struct {
	mu      sync.RWMutex
	session *Session
}

// Save implements Persistence.
func (p *memoryPersistence) Save(ctx context.Context, s *Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := *s
	p.session = &copied
	return nil
}

// Load implements Persistence.
func (p *memoryPersistence) Load(ctx context.Context) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.session == nil {
		return nil, nil
	}
	copied := *p.session
	return &copied, nil
}

// Clear implements Persistence.
func (p *memoryPersistence) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.session = nil
	return nil
}

// Close implements Persistence.
func (p *memoryPersistence) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.session = nil
	return nil
}
