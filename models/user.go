// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultAvatarURL is assigned to users who register without picking an avatar.
const DefaultAvatarURL = "https://s3.amazonaws.com/FringeBucket/default-user.png"

// User represents a registered account. The password column holds the opaque
// hash produced by the injected PasswordHasher, never the plaintext.
type User struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Username             string         `gorm:"unique;not null" json:"username"`
	Email                string         `gorm:"unique;not null" json:"email"`
	Password             string         `gorm:"not null" json:"-"`
	Avatar               string         `json:"avatar"`
	FirstName            string         `json:"first_name"`
	LastName             string         `json:"last_name"`
	ResetPasswordToken   string         `gorm:"index" json:"-"`
	ResetPasswordExpires *time.Time     `json:"-"`
	IsAdmin              bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewUser builds a user with defaults applied and the password hashed by the
// given hasher. The admin flag is deliberately not a parameter: accounts can
// never be created as admins through registration.
func NewUser(username, email, firstName, lastName, password string, hasher PasswordHasher) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, NewValidationError("Username, email, and password are required")
	}

	hashed, err := hasher.Hash(password)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		Avatar:    DefaultAvatarURL,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}, nil
}
