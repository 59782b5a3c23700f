package domain

// Role is the closed set of capabilities a principal can hold.
type Role string

const (
	// RoleGuest is the role of a request that carries no credential.
	RoleGuest  Role = "guest"
	RoleMember Role = "member"
	RoleAgent  Role = "agent"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleMember, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// NormalizeStoredRole maps a role read from the user store onto the enumeration.
// Stored records never carry guest; anything unknown or empty is a member.
func NormalizeStoredRole(raw string) Role {
	switch r := Role(raw); r {
	case RoleAgent, RoleAdmin:
		return r
	default:
		return RoleMember
	}
}
