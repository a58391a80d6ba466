package entity

import (
	"time"

	"github.com/google/uuid"
)

// DeviceToken is the push address of a user. One per user, last write wins.
type DeviceToken struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Token     string    `gorm:"type:text;not null" json:"token"`
	Platform  string    `gorm:"size:20;not null;default:android" json:"platform"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
