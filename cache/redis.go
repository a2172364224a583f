package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"radio-metadata-go/logcolors"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// opTimeout bounds every store operation so a slow Redis cannot stall a
// request. Degradation beats latency here.
const opTimeout = 2 * time.Second

// Store wraps the shared Redis instance behind the handful of operations the
// pipeline needs. Every method tolerates store failure: reads report a miss,
// writes become no-ops, and the caller carries on without caching. The store
// is a performance optimization, never a correctness dependency.
type Store struct {
	client *redis.Client
}

// Options holds Redis connection settings.
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// New connects to Redis and returns a Store. An unreachable Redis is logged
// but not fatal; the returned Store simply degrades until it recovers.
func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("%s Redis unreachable at startup, running degraded: %v", logcolors.LogStore, err)
	} else {
		log.Infof("%s Connected to Redis at %s:%s", logcolors.LogStore, opts.Host, opts.Port)
	}

	return &Store{client: client}
}

// NewFromClient wraps an existing Redis client. Used by tests.
func NewFromClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get retrieves a string value. The second return is false on a miss or any
// store error.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Warnf("%s GET %s failed: %v", logcolors.LogStore, key, err)
		return "", false
	}
	return val, true
}

// Set stores a value with a TTL. Returns false if the value was not stored.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warnf("%s SET %s failed: %v", logcolors.LogStore, key, err)
		return false
	}
	return true
}

// GetInt retrieves an integer counter, returning 0 for missing or unreadable
// keys.
func (s *Store) GetInt(ctx context.Context, key string) int64 {
	val, ok := s.Get(ctx, key)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Incr increments a counter, fire-and-forget.
func (s *Store) Incr(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Incr(ctx, key).Err(); err != nil {
		log.Warnf("%s INCR %s failed: %v", logcolors.LogStore, key, err)
	}
}

// IncrWithExpire increments a counter and resets its TTL, returning the new
// count. Returns 0 when the store is unavailable.
func (s *Store) IncrWithExpire(ctx context.Context, key string, ttl time.Duration) int64 {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warnf("%s INCR+EXPIRE %s failed: %v", logcolors.LogStore, key, err)
		return 0
	}
	return incr.Val()
}

// IncrAll increments every key in a single pipeline round trip.
func (s *Store) IncrAll(ctx context.Context, keys []string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := s.client.Pipeline()
	for _, k := range keys {
		pipe.Incr(ctx, k)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warnf("%s pipelined INCR failed: %v", logcolors.LogStore, err)
	}
}

// SAddWithExpire adds a member to a set and refreshes the set's TTL.
func (s *Store) SAddWithExpire(ctx context.Context, key, member string, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, key, member)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warnf("%s SADD %s failed: %v", logcolors.LogStore, key, err)
	}
}

// SCard returns a set's cardinality, 0 on miss or error.
func (s *Store) SCard(ctx context.Context, key string) int64 {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("%s SCARD %s failed: %v", logcolors.LogStore, key, err)
		}
		return 0
	}
	return n
}

// MGetInts fetches several integer counters at once. Missing or unreadable
// keys come back as 0; a store error yields all zeros.
func (s *Store) MGetInts(ctx context.Context, keys []string) []int64 {
	out := make([]int64, len(keys))
	if len(keys) == 0 {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		log.Warnf("%s MGET failed: %v", logcolors.LogStore, err)
		return out
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(str, 10, 64); err == nil {
			out[i] = n
		}
	}
	return out
}

// Keys returns the keys matching a pattern. Empty on error.
func (s *Store) Keys(ctx context.Context, pattern string) []string {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		log.Warnf("%s KEYS %s failed: %v", logcolors.LogStore, pattern, err)
		return nil
	}
	return keys
}

// Available reports whether the store currently answers pings.
func (s *Store) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.client.Ping(ctx).Err() == nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}
