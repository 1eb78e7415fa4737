package captcha

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/registrar/core"
)

const (
	// DefaultTTL is how long an issued challenge stays redeemable.
	DefaultTTL = 2 * time.Minute

	// charset excludes visually ambiguous characters (I, O, l, 0, 1).
	charset = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

	minTextLen = 6
	maxTextLen = 8

	sweepInterval = 30 * time.Second
)

// MemoryStore is an in-memory implementation of the ChallengeStore interface.
// A janitor goroutine evicts expired entries so abandoned challenges never
// accumulate.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry

	ttl  time.Duration
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type entry struct {
	text      string
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory challenge store and starts its
// eviction loop. Call Close to stop it.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Issue generates a fresh challenge and records it.
func (s *MemoryStore) Issue(_ context.Context) (*core.Challenge, error) {
	text, err := randomText()
	if err != nil {
		return nil, err
	}

	ch := &core.Challenge{
		ID:        uuid.NewString(),
		Text:      text,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.entries[ch.ID] = entry{text: ch.Text, expiresAt: ch.ExpiresAt}
	s.mu.Unlock()

	return ch, nil
}

// Redeem checks and consumes a challenge as one atomic step. An expired entry
// is removed as a side effect of the check.
func (s *MemoryStore) Redeem(_ context.Context, id, submitted string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, id)
		return false
	}
	if !strings.EqualFold(e.text, submitted) {
		return false
	}
	delete(s.entries, id)
	return true
}

// Close stops the eviction loop.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// randomText draws a string of 6-8 characters from the ambiguity-free
// charset, length chosen uniformly.
func randomText() (string, error) {
	span, err := rand.Int(rand.Reader, big.NewInt(maxTextLen-minTextLen+1))
	if err != nil {
		return "", err
	}
	length := minTextLen + int(span.Int64())

	buf := make([]byte, length)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		buf[i] = charset[idx.Int64()]
	}
	return string(buf), nil
}
