package store

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
)

// RedisKeyPrefix prefixes every graph key.
const RedisKeyPrefix = "edgeknife:graph:"

// Redis stores each document as a JSON string under RedisKeyPrefix+id.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the server at addr and pings it.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisClient(client), nil
}

// NewRedisClient wraps an existing client. The store closes it on Close.
func NewRedisClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) key(id string) string { return RedisKeyPrefix + id }

// Get returns the document stored under id.
func (s *Redis) Get(ctx context.Context, id string) (*graph.Document, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get graph %s", id)
	}
	doc, err := graph.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode graph %s", id)
	}
	return &doc, nil
}

// Put stores doc without expiry.
func (s *Redis) Put(ctx context.Context, id string, doc graph.Document) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	data, err := graph.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode graph %s", id)
	}
	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "put graph %s", id)
	}
	return nil
}

// Delete removes the key for id.
func (s *Redis) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete graph %s", id)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// List scans for keys under the prefix.
func (s *Redis) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, RedisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), RedisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan graphs")
	}
	// SCAN may return a key more than once.
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Close closes the client.
func (s *Redis) Close() error {
	return s.client.Close()
}

// Ensure Redis implements Store.
var _ Store = (*Redis)(nil)
