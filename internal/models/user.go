// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles understood by the authorization policy.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered author or commenter.
//
// The password column holds a bcrypt hash, never plaintext, and is excluded
// from every JSON response via the `json:"-"` tag.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	FirstName string     `gorm:"size:50;not null" json:"firstName"`
	LastName  string     `gorm:"size:50;not null" json:"lastName"`
	Role      string     `gorm:"size:10;not null;default:user" json:"role"`
	Avatar    string     `json:"avatar,omitempty"`
	Bio       string     `gorm:"size:500" json:"bio,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Posts     []Post     `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
