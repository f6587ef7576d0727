package domain

import "time"

// Role is the caller role supplied by the identity provider.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RolePerformer Role = "performer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RolePerformer
}

// Principal is the authenticated caller on every request. The lifecycle engine
// trusts it; authentication itself lives with the identity provider.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// TokenIssuer issues bearer tokens carrying a principal.
type TokenIssuer interface {
	Issue(principalID string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the principal it carries.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}
