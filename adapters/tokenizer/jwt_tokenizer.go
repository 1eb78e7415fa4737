package tokenizer

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/ports"
)

// JWTTokenizer implements the Tokenizer interface using HS256-signed JWTs
// keyed on a single process-wide secret.
//
// The secret may arrive from configuration with incidental surrounding
// whitespace or quote characters. Signing always uses the fully normalized
// form; verification additionally tries the raw and trimmed forms so tokens
// signed under an un-normalized secret by an earlier process remain valid.
// This collapses cosmetic variants of one secret, it never widens the set of
// distinct valid secrets.
type JWTTokenizer struct {
	secret string
}

// NewJWTTokenizer creates a new JWT tokenizer with the configured secret.
func NewJWTTokenizer(secret string) ports.Tokenizer {
	return &JWTTokenizer{secret: secret}
}

// SessionToToken signs the session claims into a compact token. Fails closed
// when the normalized secret is empty.
func (j *JWTTokenizer) SessionToToken(session *core.Session) (string, error) {
	key := normalizeSecret(j.secret)
	if key == "" {
		return "", core.ErrMisconfigured
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.SubjectID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Role: session.Role.String(),
		Name: session.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// TokenToSession verifies a token against the secret candidates and returns
// the decoded session. Every verification failure collapses into
// core.ErrInvalidToken so callers never learn whether the signature or the
// expiry was at fault.
func (j *JWTTokenizer) TokenToSession(tokenStr string) (*core.Session, error) {
	// A secret that normalizes to nothing must not verify anything, not even
	// under its raw variant.
	if normalizeSecret(j.secret) == "" {
		return nil, core.ErrMisconfigured
	}
	candidates := j.secretCandidates()

	for _, key := range candidates {
		token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return key, nil
		}, jwt.WithExpirationRequired())

		if err != nil || !token.Valid {
			continue
		}

		claims, ok := token.Claims.(*SessionClaims)
		if !ok {
			return nil, core.ErrInvalidToken
		}
		return sessionFromClaims(claims)
	}

	return nil, core.ErrInvalidToken
}

func sessionFromClaims(claims *SessionClaims) (*core.Session, error) {
	role, err := core.ParseRole(claims.Role)
	if err != nil {
		return nil, core.ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, core.ErrInvalidToken
	}

	session := &core.Session{
		SubjectID: claims.Subject,
		Role:      role,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	return session, nil
}

// secretCandidates returns the ordered verification keys derived from the
// configured secret: raw, whitespace-trimmed, trimmed-and-unquoted.
// Duplicates and empty strings are dropped.
func (j *JWTTokenizer) secretCandidates() [][]byte {
	variants := []string{
		j.secret,
		strings.TrimSpace(j.secret),
		normalizeSecret(j.secret),
	}

	seen := make(map[string]struct{}, len(variants))
	var out [][]byte
	for _, v := range variants {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, []byte(v))
	}
	return out
}

// normalizeSecret trims whitespace and strips one matching pair of
// leading/trailing quote characters.
func normalizeSecret(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			s = s[1 : len(s)-1]
		}
	}
	return s
}
