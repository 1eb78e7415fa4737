package core

// Role is the closed set of privilege tiers known to the system.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
)

// ParseRole maps a wire value onto the closed role set. Anything outside the
// set is rejected before it can reach a lookup namespace.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleStudent:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string {
	return string(r)
}
