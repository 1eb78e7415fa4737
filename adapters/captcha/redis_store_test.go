package captcha_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/registrar/adapters/captcha"
)

func newRedisStore(t *testing.T) (*captcha.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return captcha.NewRedisStore(client, 2*time.Minute), mr
}

func TestRedisStore_RedeemSingleUse(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	ch, err := s.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ch.ID)

	require.True(t, s.Redeem(ctx, ch.ID, strings.ToLower(ch.Text)))
	assert.False(t, s.Redeem(ctx, ch.ID, ch.Text))
}

func TestRedisStore_WrongTextKeepsEntry(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	ch, err := s.Issue(ctx)
	require.NoError(t, err)

	assert.False(t, s.Redeem(ctx, ch.ID, "wrong"))
	assert.True(t, s.Redeem(ctx, ch.ID, ch.Text))
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	ch, err := s.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(3 * time.Minute)

	assert.False(t, s.Redeem(ctx, ch.ID, ch.Text))
}

func TestRedisStore_UnknownID(t *testing.T) {
	s, _ := newRedisStore(t)
	assert.False(t, s.Redeem(context.Background(), "missing", "text"))
}
