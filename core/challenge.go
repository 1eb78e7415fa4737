package core

import "time"

// Challenge is a short-lived, single-use human-verification puzzle. The text
// is shown to the human and typed back; it is not a secret.
type Challenge struct {
	ID        string    // Unique identifier, used once
	Text      string    // Verification string, compared case-insensitively
	ExpiresAt time.Time // Instant after which the challenge is invalid
}
