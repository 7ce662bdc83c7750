package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"moblind/internal/logging"
	apperrors "moblind/pkg/errors"
)

const (
	redisKeyPrefix   = "moblind:session:"
	redisMaxAttempts = 5
)

// RedisStore keeps sessions in Redis so several instances can share them.
// Concurrent updates to one session are resolved with WATCH/MULTI and
// retried a bounded number of times.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects to the Redis server at url and verifies it responds.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "redis ping failed", err)
	}
	return NewRedisStoreWithClient(client, ttl, logger), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logging.OrNop(logger)}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	key := redisKey(id)

	var (
		sess  *Session
		fnErr error
	)
	txf := func(tx *redis.Tx) error {
		rec := newRecord()
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &rec); err != nil {
				s.logger.Warn("discarding unreadable session", zap.String("session_id", id), zap.Error(err))
				rec = newRecord()
			}
		case errors.Is(err, redis.Nil):
		default:
			return err
		}

		sess = rec.session(id)
		if fnErr = fn(sess); fnErr != nil {
			return fnErr
		}

		payload, err := json.Marshal(recordOf(sess))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= redisMaxAttempts; attempt++ {
		fnErr = nil
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return sess, nil
		case fnErr != nil:
			return nil, fnErr
		case errors.Is(err, redis.TxFailedErr):
			s.logger.Debug("session update raced, retrying", zap.String("session_id", id), zap.Int("attempt", attempt))
			continue
		default:
			return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "session store update failed", err)
		}
	}
	return nil, apperrors.New(apperrors.ErrCodeConflict, "session update kept conflicting")
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
