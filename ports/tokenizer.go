package ports

import "github.com/campuskit/registrar/core"

// Tokenizer converts between sessions and signed bearer tokens.
type Tokenizer interface {
	// SessionToToken signs the session claims into a compact token.
	SessionToToken(session *core.Session) (string, error)

	// TokenToSession verifies a token's signature and expiry and returns the
	// decoded session. All verification failures collapse into
	// core.ErrInvalidToken.
	TokenToSession(token string) (*core.Session, error)
}
