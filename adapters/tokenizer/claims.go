package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the role and display name
// carried by session tokens.
type SessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
}
