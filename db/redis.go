package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

const scanCount = 100

// Redis db implementation
type Redis struct {
	client *goredis.Client
}

// NewRedis connects to the redis server at url (redis://host:port/db) and verifies it answers
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url %s: %w", url, err)
	}

	client := goredis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, connectivityError("ping", opts.Addr, err)
	}

	return &Redis{client: client}, nil
}

// Close the connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get a value
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, connectivityError("get", key, err)
	}

	return val, true, nil
}

// Set a value
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return connectivityError("set", key, err)
	}

	return nil
}

// Del a key
func (r *Redis) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return connectivityError("del", key, err)
	}

	return nil
}

// Keys walks the keyspace with SCAN rather than KEYS so large namespaces don't block the server.
// SCAN may report a key more than once, duplicates are dropped.
func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	seen := map[string]struct{}{}
	keys := []string{}

	iter := r.client.Scan(ctx, 0, escapePattern(prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	if err := iter.Err(); err != nil {
		return nil, connectivityError("scan", prefix, err)
	}

	return keys, nil
}

// MGet values for keys in one round trip
func (r *Redis) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, connectivityError("mget", "", err)
	}

	out := make([][]byte, len(keys))
	for i, val := range vals {
		if i >= len(out) {
			break
		}

		switch v := val.(type) {
		case string:
			out[i] = []byte(v)
		case []byte:
			out[i] = v
		}
	}

	return out, nil
}

// escapePattern quotes glob metacharacters so a prefix only ever matches itself
func escapePattern(prefix string) string {
	var b strings.Builder
	for _, c := range prefix {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}

		b.WriteRune(c)
	}

	return b.String()
}
