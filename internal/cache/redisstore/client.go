// Package redisstore keeps computed envelope covers in Redis so that several
// service instances can share them.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	maintnotifications "github.com/redis/go-redis/v9/maintnotifications"

	"github.com/mohammed-shakir/geomcore/internal/core/model"
	"github.com/mohammed-shakir/geomcore/internal/core/observability"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

type Client struct {
	rdb *redis.Client
}

func New(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     16,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)
	c := &Client{rdb: rdb}
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	observability.ObserveStoreOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// GetCover returns the stored cover for key and the resolution its cells are
// at. ok is false on a miss.
func (c *Client) GetCover(ctx context.Context, key string) (res int, cells model.Cells, ok bool, err error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveStoreOp("get", nil, time.Since(start).Seconds())
		return 0, nil, false, nil
	}
	observability.ObserveStoreOp("get", err, time.Since(start).Seconds())
	if err != nil {
		return 0, nil, false, fmt.Errorf("redis GET %q: %w", key, err)
	}
	res, cells, err = decodeCover(val)
	if err != nil {
		return 0, nil, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return res, cells, true, nil
}

// SetCover stores cells (at resolution res) under key; ttl 0 keeps it until
// deleted.
func (c *Client) SetCover(ctx context.Context, key string, res int, cells model.Cells, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, encodeCover(res, cells), ttl).Err()
	observability.ObserveStoreOp("set", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis SET %q: %w", key, err)
	}
	return nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.rdb.Del(ctx, keys...).Err()
	observability.ObserveStoreOp("del", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis DEL %d keys: %w", len(keys), err)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// stored as "<res>|cell,cell,..."; cells are hex strings so neither separator
// appears inside one
func encodeCover(res int, cells model.Cells) string {
	return strconv.Itoa(res) + "|" + strings.Join(cells, ",")
}

func decodeCover(s string) (int, model.Cells, error) {
	head, body, found := strings.Cut(s, "|")
	if !found {
		return 0, nil, errors.New("missing resolution prefix")
	}
	res, err := strconv.Atoi(head)
	if err != nil {
		return 0, nil, fmt.Errorf("resolution: %w", err)
	}
	if body == "" {
		return res, model.Cells{}, nil
	}
	return res, strings.Split(body, ","), nil
}
