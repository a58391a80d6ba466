package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemKind string

const (
	ItemKindLost  ItemKind = "lost"
	ItemKindFound ItemKind = "found"
)

// Opposite returns the kind a report of k is matched against.
func (k ItemKind) Opposite() ItemKind {
	if k == ItemKindLost {
		return ItemKindFound
	}
	return ItemKindLost
}

func (k ItemKind) Valid() bool {
	return k == ItemKindLost || k == ItemKindFound
}

type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusResolved ItemStatus = "resolved"
	ItemStatusDeleted  ItemStatus = "deleted"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusActive, ItemStatusResolved, ItemStatusDeleted:
		return true
	}
	return false
}

// ItemReport is a single lost or found posting.
type ItemReport struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string     `gorm:"size:150;not null" json:"item_name"`
	Description  string     `gorm:"type:text" json:"item_description"`
	Location     string     `gorm:"size:255;not null" json:"location"`
	Kind         ItemKind   `gorm:"size:10;not null;index:idx_items_kind_status,priority:1" json:"item_type"`
	Status       ItemStatus `gorm:"size:20;not null;default:active;index:idx_items_kind_status,priority:2" json:"status"`
	ContactPhone *string    `gorm:"size:30" json:"contact_phone,omitempty"`
	ImageURL     *string    `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *ItemReport) TableName() string {
	return "item_reports"
}

func (i *ItemReport) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	if i.Status == "" {
		i.Status = ItemStatusActive
	}
	return
}
