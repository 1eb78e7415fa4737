package core

import "time"

// Account is a stored user record. PasswordHash is opaque to the auth core;
// it is only ever handed to the hasher for one-way comparison, never reversed
// or logged.
type Account struct {
	ID           string
	Role         Role
	Name         string
	PasswordHash string

	// Role-keyed login identifiers. Exactly one is set, matching Role.
	StudentReg string
	StaffID    string
	Username   string

	// Student profile fields.
	Degree     string
	Year       int
	Department string
	Section    string
	DOB        string
	Email      string
	Phone      string

	// Staff profile fields.
	Designation string

	CreatedAt time.Time
}

// Identifier returns the login identifier for the account's role namespace.
func (a *Account) Identifier() string {
	switch a.Role {
	case RoleStudent:
		return a.StudentReg
	case RoleStaff:
		return a.StaffID
	case RoleAdmin:
		return a.Username
	}
	return ""
}

// Session is the decoded claim set of a verified token.
type Session struct {
	SubjectID string
	Role      Role
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
