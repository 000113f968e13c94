package models

// Role is the coarse authorization level carried in every session.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleFreelancer Role = "FREELANCER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFreelancer:
		return true
	}
	return false
}
