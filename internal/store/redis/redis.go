// Package redis is a Medium backed by a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Medium stores every key under a fixed prefix.
type Medium struct {
	client *redis.Client
	prefix string
}

// Dial connects to addr and verifies the connection.
func Dial(ctx context.Context, addr, prefix string) (*Medium, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(client, prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Medium {
	return &Medium{client: client, prefix: prefix}
}

func (m *Medium) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := m.client.Get(ctx, m.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (m *Medium) Set(ctx context.Context, key, value string) error {
	if err := m.client.Set(ctx, m.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (m *Medium) Close() error {
	return m.client.Close()
}

// Ping checks the server connection.
func (m *Medium) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}
