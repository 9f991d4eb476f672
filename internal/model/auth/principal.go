package auth

// Role determines which operations a principal may invoke.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleParent Role = "parent"
)

// Principal is an authenticated identity. Email is the identity key,
// compared case-sensitively.
type Principal struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the principal may use the admin surface.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
