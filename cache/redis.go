package cache

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/internal/retry"
)

// errMiss marks a plain key miss inside the retry loop so it is neither
// retried nor reported as an outage.
var errMiss = errors.New("cache: miss")

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	// Client, when set, is used directly. Otherwise a client is built from
	// Addr/Password/DB and owned (closed) by the store.
	Client   goredis.UniversalClient
	Addr     string
	Password string
	DB       int

	// TTL is the default entry expiration. Zero means DefaultTTL.
	TTL time.Duration

	// Retry bounds the attempts made against a flapping connection. The
	// zero value uses retry.DefaultConfig.
	Retry retry.Config

	Logger *zap.Logger
}

// Redis is a Store backed by a shared Redis instance. All operations run
// under the bounded retry policy; exhausted retries surface as
// *UnavailableError.
type Redis struct {
	rdb         goredis.UniversalClient
	retry       retry.Config
	ttl         time.Duration
	log         *zap.Logger
	closeClient bool
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed store from cfg.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	rdb := cfg.Client
	closeClient := false
	if rdb == nil {
		if cfg.Addr == "" {
			return nil, errors.New("cache: redis: no client and no address")
		}
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		closeClient = true
	}

	rcfg := cfg.Retry
	if rcfg.MaxAttempts == 0 {
		rcfg = retry.DefaultConfig()
	}
	if rcfg.OnRetry == nil {
		rcfg.OnRetry = func(attempt int, err error, delay time.Duration) {
			log.Warn("cache retry",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
		}
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Redis{rdb: rdb, retry: rcfg, ttl: ttl, log: log, closeClient: closeClient}, nil
}

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := retry.Do(ctx, s.retry, func(ctx context.Context) (string, error) {
		v, err := s.rdb.Get(ctx, key).Result()
		if errors.Is(err, goredis.Nil) {
			return "", errMiss
		}
		return v, err
	})
	if errors.Is(err, errMiss) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &UnavailableError{Op: "get", Err: err}
	}
	return val, true, nil
}

func (s *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.ttl
	}
	_, err := retry.Do(ctx, s.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.rdb.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		return &UnavailableError{Op: "set", Err: err}
	}
	return nil
}

// Ping checks the Redis connection is still alive.
func (s *Redis) Ping(ctx context.Context) error {
	_, err := retry.Do(ctx, s.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.rdb.Ping(ctx).Err()
	})
	if err != nil {
		return &UnavailableError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the underlying client when this store owns it. Safe to call
// multiple times; repeated calls become no-ops.
func (s *Redis) Close() error {
	if !s.closeClient {
		return nil
	}
	if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	s.log.Info("cache connection closed")
	return nil
}
