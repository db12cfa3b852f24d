package model

import "strings"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Village      string `json:"village_name"`
	Role         string `json:"role"`
}

// IsAdmin matches the role case-insensitively; older rows carry "Admin".
func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// NewUser is the admin's create-user form.
type NewUser struct {
	Username string `json:"username" valid:"required~All fields are required"`
	Password string `json:"password" valid:"required~All fields are required"`
	Village  string `json:"village_name" valid:"required~All fields are required"`
	Role     string `json:"role" valid:"required~All fields are required,in(user|admin)~Role must be user or admin"`
}

func (n *NewUser) Normalize() {
	n.Username = Clean(n.Username)
	n.Village = Clean(n.Village)
	n.Role = strings.ToLower(Clean(n.Role))
}

func (n *NewUser) Validate() error {
	n.Normalize()
	return validate(n)
}
