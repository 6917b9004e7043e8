package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:'user'" json:"role"`
	Status       string         `gorm:"size:20;not null;default:'active'" json:"status"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Invitation is a time-limited, admin-issued token that lets one email
// address register an account. One invitation per email at a time.
type Invitation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primarykey" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Token         string     `gorm:"size:512;not null" json:"-"`
	Status        string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`
	InvitedByID   uuid.UUID  `gorm:"type:uuid;not null" json:"invited_by_id"`
	InvitedBy     *User      `gorm:"foreignKey:InvitedByID" json:"-"`
	InvitedUserID *uuid.UUID `gorm:"type:uuid" json:"invited_user_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
)
