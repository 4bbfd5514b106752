package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/devburger/pkg/auth"
)

// User is a registered customer or administrator.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Admin        bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Password is the plaintext set on registration. It is never stored.
	Password string `gorm:"-" json:"-"`
}

// PrepareForWrite assigns an id to new users and replaces a pending
// plaintext password with its bcrypt hash.
func (u *User) PrepareForWrite() error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Password == "" {
		return nil
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Password = ""
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return auth.CheckPassword(u.PasswordHash, plain)
}
