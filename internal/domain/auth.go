package domain

// Role is the authorization role carried in the session token.
// The set is open; unknown values are passed through untouched.
type Role string

const (
	RoleEndUser Role = "ENDUSER"
	RoleSupport Role = "SUPPORTUSER"
	RoleAdmin   Role = "ADMINUSER"
)

// CanCreateTickets reports whether the role may open new tickets.
func (r Role) CanCreateTickets() bool {
	return r == RoleEndUser
}

// IsStaff reports whether the role sees the all-tickets overview.
func (r Role) IsStaff() bool {
	return r == RoleSupport || r == RoleAdmin
}
