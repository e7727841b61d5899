package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisClient dials and pings redis.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func OpenRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb, err := NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(rdb, cfg.Prefix), nil
}

func NewRedisStore(rdb *goredis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "grimoire"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (r *RedisStore) Client() *goredis.Client { return r.rdb }

func (r *RedisStore) key(name string) string { return r.prefix + ":" + name }

func (r *RedisStore) get(ctx context.Context, name string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", name, err)
	}
	return b, nil
}

func (r *RedisStore) Load(ctx context.Context) (*model.State, error) {
	b, err := r.get(ctx, keyState)
	if err != nil {
		return nil, err
	}
	return decodeState(b)
}

func (r *RedisStore) Save(ctx context.Context, s *model.State) error {
	b, err := encodeState(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(keyState), b, 0).Err()
}

func (r *RedisStore) LoadOffset(ctx context.Context) (int, error) {
	b, err := r.get(ctx, keyOffset)
	if err != nil {
		return 0, err
	}
	return decodeOffset(b)
}

func (r *RedisStore) SaveOffset(ctx context.Context, offset int) error {
	return r.rdb.Set(ctx, r.key(keyOffset), strconv.Itoa(offset), 0).Err()
}

func (r *RedisStore) Close() error { return r.rdb.Close() }
