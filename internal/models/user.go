package models

type UserRole string

const (
	RoleLearner  UserRole = "learner"
	RoleEducator UserRole = "educator"
	RoleAdmin    UserRole = "admin"
)

// User is the authenticated caller as resolved from the identity provider token.
type User struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

func (u User) CanViewResults() bool {
	return u.Role == RoleEducator || u.Role == RoleAdmin
}
