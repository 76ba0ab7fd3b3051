package challenges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "resumeai:challenge:"

func challengeKey(id string) string { return keyPrefix + "id:" + id }
func emailKey(email string) string  { return keyPrefix + "email:" + email }
func failuresKey(id string) string  { return keyPrefix + "failures:" + id }

// RedisStore keeps challenges as JSON strings whose key TTL matches the
// challenge lifetime.
type RedisStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

// Connect parses url, tunes the pool and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (s *RedisStore) Save(ctx context.Context, c *models.Challenge) error {
	ttl := c.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("challenge %s already expired", c.ID)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	prev, err := s.rdb.Get(ctx, emailKey(c.Email)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis get: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if prev != "" {
			p.Del(ctx, challengeKey(prev), failuresKey(prev))
		}
		p.Set(ctx, challengeKey(c.ID), data, ttl)
		p.Set(ctx, emailKey(c.Email), c.ID, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Challenge, error) {
	data, err := s.rdb.Get(ctx, challengeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var c models.Challenge
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode challenge %s: %w", id, err)
	}
	return &c, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, challengeKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	s.rdb.Del(ctx, failuresKey(id))
	return nil
}

func (s *RedisStore) RecordFailure(ctx context.Context, id string) (int, error) {
	ttl, err := s.rdb.TTL(ctx, challengeKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	// -2 means the key does not exist.
	if ttl < 0 {
		return 0, common.ErrNotFound
	}

	var incr *redis.IntCmd
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, failuresKey(id))
		p.Expire(ctx, failuresKey(id), ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return int(incr.Val()), nil
}
