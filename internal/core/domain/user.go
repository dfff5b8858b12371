package domain

import "time"

// Role is the authorization level carried by a user and its tokens.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User models a registered account. Users are the owners of address books
// and the targets referenced by contacts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary returns the reduced view of u embedded in contact responses.
func (u *User) Summary() *ContactUser {
	if u == nil {
		return nil
	}
	return &ContactUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
