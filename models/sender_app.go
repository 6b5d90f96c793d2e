package models

import (
	"github.com/google/uuid"
	"time"
)

// SenderApp is an external application allowed to submit records. Only the
// bcrypt hash of its master key is stored; the plaintext key is disclosed
// exactly once at creation and never re-served.
type SenderApp struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null"`
	KeyID      string    `gorm:"column:key_id;type:varchar(64);uniqueIndex;not null"`
	SecretHash string    `gorm:"column:secret_hash;type:varchar(255);not null"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time
}

func (s *SenderApp) TableName() string {
	return "sender_apps"
}
