package models

import "time"

// UserRole is the authorization role of a user.
type UserRole string

const (
	UserRoleAdmin UserRole = "Admin"
	UserRoleUser  UserRole = "User"
)

// DefaultCurrency is the display currency assigned to new users.
const DefaultCurrency = "₹"

// User represents the user model in the database
type User struct {
	Base
	Username    string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        UserRole   `gorm:"size:16;not null;default:User" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	Currency    string     `gorm:"size:8;not null;default:₹" json:"currency"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}

// IsAdmin reports whether the user holds the Admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
