// Package cache keeps each user's task list in Redis so repeated list reads
// skip Postgres. Entries are dropped whenever one of the user's tasks changes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BuzzLyutic/life-command/internal/model"
)

const DefaultPrefix = "tasks:"

type TaskListCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func New(client redis.UniversalClient, prefix string, ttl time.Duration) *TaskListCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &TaskListCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// NewClient builds a Redis client from a redis:// URL.
func NewClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (c *TaskListCache) key(userID string) string {
	return c.prefix + userID
}

func (c *TaskListCache) versionKey(userID string) string {
	return c.prefix + userID + ":version"
}

// Get returns the cached list and whether it was present.
func (c *TaskListCache) Get(ctx context.Context, userID string) ([]model.Task, bool, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return tasks, true, nil
}

// Version returns the user's invalidation counter. Read it before loading
// the list from the store and hand it back to Set.
func (c *TaskListCache) Version(ctx context.Context, userID string) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return v, nil
}

// setIfVersion writes the list only while the counter still holds the
// version the caller read.
var setIfVersion = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	if current ~= tonumber(ARGV[1]) then
		return 0
	end
	local ttl = tonumber(ARGV[3])
	if ttl > 0 then
		redis.call('SET', KEYS[2], ARGV[2], 'PX', ttl)
	else
		redis.call('SET', KEYS[2], ARGV[2])
	end
	return 1
`)

// Set stores the list unless the user was invalidated after version was
// read. It reports whether the list was stored.
func (c *TaskListCache) Set(ctx context.Context, userID string, version int64, tasks []model.Task) (bool, error) {
	data, err := json.Marshal(tasks)
	if err != nil {
		return false, fmt.Errorf("cache marshal: %w", err)
	}

	stored, err := setIfVersion.Run(ctx, c.client,
		[]string{c.versionKey(userID), c.key(userID)},
		version, data, c.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("cache set: %w", err)
	}
	return stored == 1, nil
}

// Invalidate bumps each user's counter and drops the cached list.
func (c *TaskListCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, c.versionKey(id))
			pipe.Del(ctx, c.key(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *TaskListCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
