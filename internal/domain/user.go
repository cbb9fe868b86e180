package domain

// User is the display projection of the signed-in account.
type User struct {
	Username string
	Email    string
	Role     Role
}
