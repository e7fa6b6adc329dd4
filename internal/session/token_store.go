package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	redisstore "github.com/calcuttafresh/storefront/pkg/redis"
)

// TokenStore persists the backend-issued bearer token per client
// session, the gateway's analog of the browser's localStorage slot.
// Load returns an empty token, not an error, when nothing is stored.
type TokenStore interface {
	Save(ctx context.Context, sessionID, token string, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (string, error)
	Drop(ctx context.Context, sessionID string) error
}

// RedisTokenStore keeps tokens in Redis under the session namespace.
type RedisTokenStore struct {
	client *redisstore.Client
}

func NewRedisTokenStore(client *redisstore.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	return s.client.StoreSessionToken(ctx, sessionID, token, ttl)
}

func (s *RedisTokenStore) Load(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.GetSessionToken(ctx, sessionID)
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *RedisTokenStore) Drop(ctx context.Context, sessionID string) error {
	return s.client.DropSessionToken(ctx, sessionID)
}

// MemoryTokenStore is the in-process implementation used in tests.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: map[string]string{}}
}

func (s *MemoryTokenStore) Save(_ context.Context, sessionID, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sessionID] = token
	return nil
}

func (s *MemoryTokenStore) Load(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[sessionID], nil
}

func (s *MemoryTokenStore) Drop(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}
