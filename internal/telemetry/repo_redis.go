package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisRepository appends events to a capped redis list, newest first.
type RedisRepository struct {
	rdb     *goredis.Client
	key     string
	limit   int64
	timeout time.Duration
}

func NewRedisRepository(rdb *goredis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "grimoire"
	}
	return &RedisRepository{
		rdb:     rdb,
		key:     prefix + ":events",
		limit:   DefaultEventLimit,
		timeout: 3 * time.Second,
	}
}

func (r *RedisRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	if r == nil || r.rdb == nil {
		return fmt.Errorf("redis telemetry not initialized")
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	id, err := r.rdb.Incr(ctx, r.key+":seq").Result()
	if err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	raw, err := json.Marshal(Event{
		ID:        int(id),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Metadata:  string(metadataJSON),
	})
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, r.key, raw)
	pipe.LTrim(ctx, r.key, 0, r.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push to Redis: %w", err)
	}
	return nil
}

func (r *RedisRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	raws, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	// stored newest first
	slices.Reverse(events)
	return filterEvents(events, since, eventTypes), nil
}

func (r *RedisRepository) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.rdb.Del(ctx, r.key, r.key+":seq").Err()
}
