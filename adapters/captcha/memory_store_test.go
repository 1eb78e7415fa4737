package captcha

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newQuietStore builds a store without the janitor goroutine so tests can
// swap the clock without racing it.
func newQuietStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

func TestIssue_TextShape(t *testing.T) {
	s := newQuietStore()
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		ch, err := s.Issue(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, ch.ID)

		_, dup := seen[ch.ID]
		require.False(t, dup, "challenge ids must be unique")
		seen[ch.ID] = struct{}{}

		assert.GreaterOrEqual(t, len(ch.Text), minTextLen)
		assert.LessOrEqual(t, len(ch.Text), maxTextLen)
		for _, r := range ch.Text {
			assert.Contains(t, charset, string(r))
		}
	}
}

func TestRedeem_SingleUse(t *testing.T) {
	s := newQuietStore()
	ctx := context.Background()

	ch, err := s.Issue(ctx)
	require.NoError(t, err)

	require.True(t, s.Redeem(ctx, ch.ID, ch.Text))
	assert.False(t, s.Redeem(ctx, ch.ID, ch.Text), "second redemption must fail")
	assert.False(t, s.Redeem(ctx, ch.ID, "anything"))
}

func TestRedeem_CaseInsensitive(t *testing.T) {
	s := newQuietStore()
	ctx := context.Background()

	s.entries["c1"] = entry{text: "aB3xZ9", expiresAt: time.Now().Add(time.Minute)}

	require.True(t, s.Redeem(ctx, "c1", "ab3xz9"))
}

func TestRedeem_WrongTextKeepsEntry(t *testing.T) {
	s := newQuietStore()
	ctx := context.Background()

	ch, err := s.Issue(ctx)
	require.NoError(t, err)

	assert.False(t, s.Redeem(ctx, ch.ID, "definitely-wrong"))
	assert.True(t, s.Redeem(ctx, ch.ID, strings.ToLower(ch.Text)), "a wrong guess must not consume the challenge")
}

func TestRedeem_UnknownID(t *testing.T) {
	s := newQuietStore()
	assert.False(t, s.Redeem(context.Background(), "nope", "text"))
}

func TestRedeem_Expired(t *testing.T) {
	s := newQuietStore()
	ctx := context.Background()

	ch, err := s.Issue(ctx)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(3 * time.Minute) }

	assert.False(t, s.Redeem(ctx, ch.ID, ch.Text), "expired challenge must not redeem even with correct text")

	s.mu.Lock()
	_, exists := s.entries[ch.ID]
	s.mu.Unlock()
	assert.False(t, exists, "expired entry must be removed by the failed redemption")
}

func TestRedeem_ConcurrentRace(t *testing.T) {
	s := newQuietStore()
	ctx := context.Background()

	ch, err := s.Issue(ctx)
	require.NoError(t, err)

	const racers = 16
	var (
		wins  int32
		start = make(chan struct{})
		wg    sync.WaitGroup
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if s.Redeem(ctx, ch.ID, ch.Text) {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins, "exactly one concurrent redemption may succeed")
}

func TestSweep_RemovesExpired(t *testing.T) {
	s := newQuietStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Issue(ctx)
		require.NoError(t, err)
	}

	s.now = func() time.Time { return time.Now().Add(3 * time.Minute) }
	s.sweep()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.entries)
}
