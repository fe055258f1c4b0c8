package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"exoplanet-prediction-api/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LiveChannel carries prediction.created events for the websocket feed.
const LiveChannel = "exovision:predictions"

const pingAttempts = 5

// CacheService wraps redis. With no client every call is a no-op, so the
// API runs without redis.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewCacheService returns a disabled cache when cfg.URL is empty. When redis
// is configured but unreachable it returns a disabled cache and the ping
// error.
func NewCacheService(cfg config.RedisConfig, log *zap.Logger) (*CacheService, error) {
	s := &CacheService{ttl: time.Duration(cfg.CacheTTLSec) * time.Second, log: log}
	if cfg.URL == "" {
		log.Info("redis disabled")
		return s, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return s, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	var lastErr error
	for i := 0; i < pingAttempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			s.client = client
			log.Info("redis connected", zap.String("addr", opts.Addr))
			return s, nil
		}
		log.Warn("redis ping failed",
			zap.Int("attempt", i+1),
			zap.Int("of", pingAttempts),
			zap.Error(lastErr),
		)
		time.Sleep(time.Second)
	}

	_ = client.Close()
	return s, fmt.Errorf("redis ping failed after %d attempts: %w", pingAttempts, lastErr)
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *CacheService {
	return &CacheService{client: client, ttl: ttl, log: log}
}

func (s *CacheService) Client() *redis.Client {
	return s.client
}

func (s *CacheService) Available() bool {
	return s.client != nil
}

// Get decodes the cached value into dest and reports whether it was there.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value as JSON. A zero ttl uses the configured default.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = s.ttl
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if s.client == nil || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) Publish(ctx context.Context, channel string, message interface{}) error {
	if s.client == nil {
		return nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}

// Subscribe returns nil when redis is disabled.
func (s *CacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if s.client == nil {
		return nil
	}
	return s.client.Subscribe(ctx, channel)
}

func (s *CacheService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func predictionKey(family, predictionID string) string {
	return "exovision:prediction:" + family + ":" + predictionID
}
