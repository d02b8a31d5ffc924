package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "idempotency:"

// RedisConfig параметры подключения к Redis
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisClient создает клиент и проверяет соединение
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: redis addr is empty", ErrStoreUnavailable)
	}

	opts := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrStoreUnavailable, err)
	}

	return client, nil
}

// RedisStore хранит ответы в Redis с TTL, общий для всех инстансов сервиса
type RedisStore struct {
	client redis.UniversalClient
	prefix  string
	ttl     time.Duration
	lockTTL time.Duration
}

// NewRedisStore создает хранилище поверх готового клиента
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, lockTTL: defaultLockTTL}
}

// reserveAttempts сколько раз пробуем занять ключ, если он истек между SETNX и GET
const reserveAttempts = 2

func (s *RedisStore) Reserve(ctx context.Context, key, fingerprint string) (*CachedResponse, bool, error) {
	pending, err := json.Marshal(&CachedResponse{Fingerprint: fingerprint, CreatedAt: time.Now()})
	if err != nil {
		return nil, false, fmt.Errorf("%w: marshal %s: %v", ErrCorruptedEntry, key, err)
	}

	for attempt := 0; attempt < reserveAttempts; attempt++ {
		reserved, err := s.client.SetNX(ctx, s.prefix+key, pending, s.lockTTL).Result()
		if err != nil {
			return nil, false, fmt.Errorf("%w: setnx %s: %w", ErrStoreUnavailable, key, err)
		}
		if reserved {
			return nil, true, nil
		}

		data, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: get %s: %w", ErrStoreUnavailable, key, err)
		}

		var existing CachedResponse
		if err := json.Unmarshal(data, &existing); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptedEntry, key, err)
		}
		return &existing, false, nil
	}

	return nil, false, fmt.Errorf("%w: reserve %s: key keeps expiring", ErrStoreUnavailable, key)
}

func (s *RedisStore) Complete(ctx context.Context, key string, response *CachedResponse) error {
	response.CreatedAt = time.Now()

	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrCorruptedEntry, key, err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStoreUnavailable, key, err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %w", ErrStoreUnavailable, key, err)
	}
	return nil
}

// Close закрывает клиент Redis
func (s *RedisStore) Close() error {
	return s.client.Close()
}
