package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	Email        *string    `gorm:"column:email;type:text" json:"email,omitempty"`
	PasswordHash string     `gorm:"column:password_hash;type:text;not null" json:"-"`
	Admin        bool       `gorm:"column:admin;not null;default:false" json:"admin"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
