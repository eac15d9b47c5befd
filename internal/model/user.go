package model

// Role values attached to users. Roles gate status changes and widen
// the delete permission; there is no finer-grained ACL.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an authenticated account.
// Password holds a bcrypt hash, never the cleartext credential.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
