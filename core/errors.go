package core

import "errors"

var (
	// ErrInvalidChallenge is returned when a captcha challenge is missing,
	// expired, already redeemed, or answered incorrectly.
	ErrInvalidChallenge = errors.New("invalid or expired challenge")

	// ErrInvalidRole is returned when a role value is outside the closed set.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCredentials covers both an unknown identifier and a wrong
	// password, so responses never confirm whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidToken covers malformed, mismatched-signature and expired
	// tokens. The reason is never surfaced to the caller.
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden is returned when an authenticated identity lacks a
	// required role.
	ErrForbidden = errors.New("forbidden")

	// ErrMisconfigured is returned when the session secret normalizes to an
	// empty string. Both signing and verification fail closed.
	ErrMisconfigured = errors.New("server misconfiguration")

	// ErrAccountNotFound is returned by user stores when no account matches
	// a role-keyed identifier.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating an account whose identifier
	// is already taken within its role namespace.
	ErrAccountExists = errors.New("account already exists")

	// ErrMissingField is returned when a record operation is missing a
	// required field.
	ErrMissingField = errors.New("required field missing")
)
