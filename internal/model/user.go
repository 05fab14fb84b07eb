package model

// User represents a back-office account. Users are tenant-independent and
// join tenants through UserTenant memberships; they are hard-deleted, never
// soft-deleted.
type User struct {
	Base
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	FirstName    string  `json:"firstName" db:"first_name"`
	LastName     string  `json:"lastName" db:"last_name"`
	AvatarURL    *string `json:"avatarUrl" db:"avatar_url"`
}
