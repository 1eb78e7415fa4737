package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuskit/registrar/core"
	"github.com/campuskit/registrar/ports"
)

// AuthService handles challenge issuance, login and token authorization.
type AuthService struct {
	challenges ports.ChallengeStore
	users      ports.UserStore
	hasher     ports.Hasher
	tokenizer  ports.Tokenizer
	eventPub   ports.EventPublisher

	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	challenges ports.ChallengeStore,
	users ports.UserStore,
	hasher ports.Hasher,
	tokenizer ports.Tokenizer,
	eventPub ports.EventPublisher,
) *AuthService {
	return &AuthService{
		challenges: challenges,
		users:      users,
		hasher:     hasher,
		tokenizer:  tokenizer,
		eventPub:   eventPub,
		sessionTTL: 8 * time.Hour,
		now:        time.Now,
	}
}

// CreateChallenge issues a new human-verification challenge.
func (s *AuthService) CreateChallenge(ctx context.Context) (*core.Challenge, error) {
	ch, err := s.challenges.Issue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to issue challenge: %w", err)
	}
	return ch, nil
}

// Login verifies the challenge response and the role-keyed credential, then
// issues a signed session token. The token's role comes from the matched
// account record, never from the client-supplied role value.
func (s *AuthService) Login(ctx context.Context, roleStr, identifier, password, challengeID, challengeResponse string) (string, *core.Account, error) {
	if !s.challenges.Redeem(ctx, challengeID, challengeResponse) {
		return "", nil, core.ErrInvalidChallenge
	}

	role, err := core.ParseRole(roleStr)
	if err != nil {
		return "", nil, core.ErrInvalidRole
	}

	account, err := s.users.FindByRoleAndIdentifier(ctx, role, identifier)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			// Merged with wrong-password so responses never confirm that an
			// identifier exists.
			return "", nil, core.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("account lookup failed: %w", err)
	}

	// Lookup is role-keyed, but a stored record whose own role diverges from
	// the claimed one must never silently succeed.
	if account.Role != role {
		return "", nil, core.ErrInvalidCredentials
	}

	if !s.hasher.Compare(password, account.PasswordHash) {
		return "", nil, core.ErrInvalidCredentials
	}

	now := s.now()
	session := &core.Session{
		SubjectID: account.ID,
		Role:      account.Role,
		Name:      account.Name,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		if errors.Is(err, core.ErrMisconfigured) {
			return "", nil, core.ErrMisconfigured
		}
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	if s.eventPub != nil {
		// Login already succeeded; audit delivery is best effort.
		_ = s.eventPub.PublishLogin(ctx, account.ID, account.Role)
	}

	return token, account, nil
}

// Authorize verifies a bearer token and, when allowed is non-empty, enforces
// role membership. An empty allowed set admits any authenticated identity.
func (s *AuthService) Authorize(_ context.Context, token string, allowed ...core.Role) (*core.Session, error) {
	session, err := s.tokenizer.TokenToSession(token)
	if err != nil {
		return nil, err
	}

	if len(allowed) == 0 {
		return session, nil
	}
	for _, r := range allowed {
		if session.Role == r {
			return session, nil
		}
	}
	return nil, core.ErrForbidden
}
