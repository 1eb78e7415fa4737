package ports

import (
	"context"

	"github.com/campuskit/registrar/core"
)

// ChallengeStore issues and redeems single-use human-verification challenges.
type ChallengeStore interface {
	// Issue creates a fresh challenge and records it until it expires or is
	// redeemed, whichever comes first.
	Issue(ctx context.Context) (*core.Challenge, error)

	// Redeem returns true iff a live entry exists for id and submitted
	// matches its text case-insensitively. A successful redemption removes
	// the entry; concurrent calls against the same id succeed at most once.
	// Redeem never returns an error: absence of proof is simply false.
	Redeem(ctx context.Context, id, submitted string) bool
}
