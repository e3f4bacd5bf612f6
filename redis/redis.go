// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package redis provides a counter.Store backed by a Redis server.
//
// Each counter is a hash at the key "counter:<name>" with fields
// "value" and "modified" (Unix nanoseconds).  Create and increment
// are Lua scripts, so the existence check and the write happen
// atomically on the server.
package redis

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-counter/counter"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix is prepended to counter names to form Redis keys.
const DefaultPrefix = "counter:"

// scanCount is the COUNT hint for SCAN when listing counters.
const scanCount = 100

// createScript sets up a new counter hash.  Returns 1 if it was
// created, 0 if the key already existed.
var createScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "value", 0, "modified", ARGV[1])
return 1
`)

// incrementScript adds one to an existing counter hash and returns
// the new value, or nil if there is no such counter.
var incrementScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return false
end
redis.call("HSET", KEYS[1], "modified", ARGV[1])
return redis.call("HINCRBY", KEYS[1], "value", 1)
`)

type redisStore struct {
	client *goredis.Client
	clock  clock.Clock
	prefix string
}

// New creates a new counter.Store talking to a Redis server.  address
// is either a plain "host:port" or a "redis://" URL as understood by
// go-redis's ParseURL.
func New(address string) (counter.Store, error) {
	return NewWithClock(address, clock.New())
}

// NewWithClock creates a new Redis-backed counter.Store, using an
// explicit time source for modification times.  It pings the server
// once and fails if that does not succeed.
func NewWithClock(address string, clk clock.Clock) (counter.Store, error) {
	opts, err := parseAddress(address)
	if err != nil {
		return nil, err
	}
	client := goredis.NewClient(opts)
	if err = client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &redisStore{client: client, clock: clk, prefix: DefaultPrefix}, nil
}

func parseAddress(address string) (*goredis.Options, error) {
	if strings.HasPrefix(address, "redis://") || strings.HasPrefix(address, "rediss://") {
		return goredis.ParseURL(address)
	}
	if address == "" {
		address = "localhost:6379"
	}
	return &goredis.Options{Addr: address}, nil
}

func encodeTime(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

func decodeTime(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n), nil
}

func (s *redisStore) key(name string) string {
	return s.prefix + name
}

func (s *redisStore) Create(ctx context.Context, name string) (counter.Counter, error) {
	if err := counter.ValidateName(name); err != nil {
		return counter.Counter{}, err
	}
	now := s.clock.Now()
	created, err := createScript.Run(ctx, s.client, []string{s.key(name)}, encodeTime(now)).Int64()
	if err != nil {
		return counter.Counter{}, err
	}
	if created == 0 {
		return counter.Counter{}, counter.ErrCounterExists{Name: name}
	}
	return counter.Counter{Name: name, Modified: now}, nil
}

func (s *redisStore) Increment(ctx context.Context, name string) (counter.Counter, error) {
	if err := counter.ValidateName(name); err != nil {
		return counter.Counter{}, err
	}
	now := s.clock.Now()
	value, err := incrementScript.Run(ctx, s.client, []string{s.key(name)}, encodeTime(now)).Int64()
	if err == goredis.Nil {
		return counter.Counter{}, counter.ErrNoSuchCounter{Name: name}
	}
	if err != nil {
		return counter.Counter{}, err
	}
	return counter.Counter{Name: name, Value: value, Modified: now}, nil
}

func (s *redisStore) Get(ctx context.Context, name string) (counter.Counter, error) {
	if err := counter.ValidateName(name); err != nil {
		return counter.Counter{}, err
	}
	fields, err := s.client.HMGet(ctx, s.key(name), "value", "modified").Result()
	if err != nil {
		return counter.Counter{}, err
	}
	return decodeCounter(name, fields)
}

// decodeCounter converts the result of HMGET value modified into a
// counter.
func decodeCounter(name string, fields []interface{}) (counter.Counter, error) {
	c := counter.Counter{Name: name}
	if len(fields) != 2 || fields[0] == nil {
		return c, counter.ErrNoSuchCounter{Name: name}
	}
	var err error
	if value, ok := fields[0].(string); ok {
		c.Value, err = strconv.ParseInt(value, 10, 64)
	}
	if modified, ok := fields[1].(string); ok && err == nil {
		c.Modified, err = decodeTime(modified)
	}
	return c, err
}

func (s *redisStore) List(ctx context.Context) ([]counter.Counter, error) {
	// SCAN can return a key more than once
	seen := make(map[string]bool)
	result := []counter.Counter{}
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		name := strings.TrimPrefix(iter.Val(), s.prefix)
		if seen[name] {
			continue
		}
		seen[name] = true
		c, err := s.Get(ctx, name)
		if _, missing := err.(counter.ErrNoSuchCounter); missing {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}
