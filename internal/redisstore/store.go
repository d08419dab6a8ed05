// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package redisstore provides a Redis-backed session.Port so several terminals can
// share one tripdesk session. Keys are namespaced by a prefix, which plays the role
// of the origin scope: two prefixes never see each other's session.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripdesk/cli/internal/session"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 3 * time.Second

// Port is a Redis-based session.Port.
type Port struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

var _ session.BatchPort = (*Port)(nil)

// New wraps an existing client. An empty prefix defaults to "tripdesk:".
func New(client redis.UniversalClient, prefix string) *Port {
	if prefix == "" {
		prefix = "tripdesk:"
	}
	return &Port{client: client, prefix: prefix, timeout: defaultTimeout}
}

// Open parses a redis:// URL, pings the server and returns a Port.
func Open(ctx context.Context, url, prefix string) (*Port, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(client, prefix), nil
}

// Close releases the underlying client.
func (p *Port) Close() error { return p.client.Close() }

func (p *Port) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	v, err := p.client.Get(ctx, p.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", session.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (p *Port) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.Set(ctx, p.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (p *Port) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	n, err := p.client.Del(ctx, p.prefix+key).Result()
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

// SetMany writes all values in one MULTI/EXEC transaction, so other clients
// sharing the prefix see either none or all of them.
func (p *Port) SetMany(values map[string]string) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, p.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// DeleteMany removes the keys with a single DEL. Absent keys are ignored.
func (p *Port) DeleteMany(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = p.prefix + k
	}
	if err := p.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
