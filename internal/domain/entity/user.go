package entity

// Roles assigned to users. Every registered user starts as RoleUser;
// promotion to RoleAdmin happens outside the exposed API surface.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the credential-store row. Password holds the bcrypt hash,
// never the plain text. Avatar is empty when the user registered
// without one; the feed projection substitutes the default reference.
type User struct {
	ID       int64
	Username string
	Password string
	Avatar   string
	Role     string
}
