package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// verify-and-consume must be atomic: a matching code is deleted in the same
// step that confirms it, so each generated code verifies at most once and a
// verify racing a regenerate observes exactly one code-and-expiry pair.
var consumeScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if stored and stored == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`)

// RedisStore keeps one pending passcode per mobile number. Redis TTL is the
// expiry; a new Generate overwrites any prior unconsumed code.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	length int
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, prefix string, length int, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "otp"
	}
	return &RedisStore{client: client, prefix: prefix, length: length, ttl: ttl}
}

// Put stores code for mobile with the configured expiry, replacing any
// previous code for that number.
func (s *RedisStore) Put(ctx context.Context, mobile, code string) error {
	if err := s.client.Set(ctx, s.key(mobile), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

// Consume reports whether candidate matches the pending code for mobile and
// invalidates it on success. Missing, expired and mismatched codes all return
// false; a second call after a successful one returns false.
func (s *RedisStore) Consume(ctx context.Context, mobile, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}
	res, err := consumeScript.Run(ctx, s.client, []string{s.key(mobile)}, candidate).Int()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return res == 1, nil
}

func (s *RedisStore) key(mobile string) string {
	return s.prefix + ":" + mobile
}

// NewCode produces a fixed-length numeric code using crypto/rand. Leading
// zeros are allowed, so a 6-digit code has the full 10^6 space.
func NewCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
