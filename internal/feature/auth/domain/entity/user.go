// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Users are created by signup and never updated
// or deleted.
type User struct {
	// ID is an opaque identifier assigned at creation.
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Name is the display name, stored trimmed.
	Name string `gorm:"size:255;not null"`

	// Email is stored trimmed and lower-cased and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash. The plaintext is never stored.
	Password string `gorm:"size:255;not null"`

	// CreatedAt is set once, at creation.
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
