package domain

import "time"

// User is a registered marketplace account. Email is the identity carried in tokens.
type User struct {
	ID           string    `json:"_id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhotoURL     string    `json:"photoURL,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// EffectiveRole returns the normalized stored role.
func (u *User) EffectiveRole() Role {
	if u == nil {
		return RoleMember
	}
	return NormalizeStoredRole(string(u.Role))
}
