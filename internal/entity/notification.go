package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const NotificationTypeItemMatch = "item_match"

type Notification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`         // Recipient
	SubjectItemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"subject_item_id"` // Found item that triggered it
	MatchedItemID *uuid.UUID `gorm:"type:uuid" json:"matched_item_id,omitempty"`      // Recipient's own report
	Type          string     `gorm:"type:varchar(50);not null" json:"type"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Message       string     `gorm:"type:text" json:"message"`
	IsRead        bool       `gorm:"default:false" json:"is_read"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`

	SubjectItem *ItemReport `gorm:"foreignKey:SubjectItemID" json:"subject_item,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
