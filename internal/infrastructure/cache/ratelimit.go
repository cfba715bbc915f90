package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const storageTimeout = 250 * time.Millisecond

// LimiterStorage keeps fiber limiter windows in Redis so that every replica
// shares one count per key. Store errors are logged and swallowed: a missing
// window reads as a fresh one, which lets the request through.
type LimiterStorage struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewLimiterStorage(client *redis.Client, prefix string, logger *zap.Logger) *LimiterStorage {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LimiterStorage{client: client, prefix: prefix, logger: logger}
}

func (s *LimiterStorage) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("rate limit read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, nil
	}
	return b, nil
}

func (s *LimiterStorage) Get(key string) ([]byte, error) {
	return s.GetWithContext(context.Background(), key)
}

func (s *LimiterStorage) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if s == nil || s.client == nil || len(key) == 0 || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.prefix+key, val, exp).Err(); err != nil {
		s.logger.Debug("rate limit write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *LimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.SetWithContext(context.Background(), key, val, exp)
}

func (s *LimiterStorage) DeleteWithContext(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *LimiterStorage) Delete(key string) error {
	return s.DeleteWithContext(context.Background(), key)
}

// ResetWithContext removes every window under the storage prefix.
func (s *LimiterStorage) ResetWithContext(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *LimiterStorage) Reset() error {
	return s.ResetWithContext(context.Background())
}

// Close is a no-op; the client belongs to Redis.
func (s *LimiterStorage) Close() error { return nil }
