package ports

// Hasher produces and verifies one-way credential digests.
type Hasher interface {
	Hash(plaintext string) (string, error)

	// Compare reports whether plaintext matches the digest. One-way only.
	Compare(plaintext, digest string) bool
}
