package models

import (
	"time"

	"gorm.io/gorm"
)

// TaggedItem is a free-text label attached to an arbitrary entity
// (order, customer, device).
//
// Slug is derived from Description and used for deduplication and lookup.
// It is nullable because labels created interactively start without one;
// the tag normalization pass fills it in.
type TaggedItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Description string         `gorm:"not null" json:"description"`
	Slug        *string        `gorm:"index" json:"slug,omitempty"`
	OwnerType   string         `gorm:"not null;index:idx_tagged_owner" json:"owner_type"`
	OwnerID     uint           `gorm:"not null;index:idx_tagged_owner" json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for TaggedItem model
func (TaggedItem) TableName() string {
	return "tagged_items"
}
