package captcha

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/campuskit/registrar/core"
)

// redeemScript compares the submitted text against the stored challenge and
// deletes the entry only on a match. Running inside Redis makes the
// check-and-delete atomic, so two racing redeemers cannot both succeed.
var redeemScript = redis.NewScript(`
local text = redis.call("GET", KEYS[1])
if not text then
	return 0
end
if string.lower(text) == string.lower(ARGV[1]) then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisStore is a Redis implementation of the ChallengeStore interface.
// Expiry is delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis challenge store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: "registrar:captcha:",
		ttl:    ttl,
	}
}

// Issue generates a fresh challenge and stores it with a TTL.
func (s *RedisStore) Issue(ctx context.Context) (*core.Challenge, error) {
	text, err := randomText()
	if err != nil {
		return nil, err
	}

	ch := &core.Challenge{
		ID:        uuid.NewString(),
		Text:      text,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.client.Set(ctx, s.prefix+ch.ID, ch.Text, s.ttl).Err(); err != nil {
		return nil, err
	}
	return ch, nil
}

// Redeem consumes the challenge atomically via the server-side script. Any
// infrastructure failure counts as absence of proof.
func (s *RedisStore) Redeem(ctx context.Context, id, submitted string) bool {
	n, err := redeemScript.Run(ctx, s.client, []string{s.prefix + id}, submitted).Int()
	if err != nil {
		return false
	}
	return n == 1
}
