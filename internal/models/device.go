package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Device represents a customer unit attached to a service order
type Device struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OrderID      *uint  `gorm:"index" json:"order_id,omitempty"`
	ProductID    *uint  `gorm:"index" json:"product_id,omitempty"`
	SerialNumber string `gorm:"index" json:"serial_number"`
	// Position orders devices within one service order; the lowest position
	// is the primary device used for the cached order description.
	Position  int            `gorm:"default:0" json:"position"`
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName specifies the table name for Device model
func (Device) TableName() string {
	return "devices"
}

// Label builds the display label for this device: product name plus serial
// number when both are known. Requires the Product relation to be loaded.
func (d *Device) Label() string {
	var parts []string
	if d.Product != nil && d.Product.Name != "" {
		parts = append(parts, d.Product.Name)
	}
	if d.SerialNumber != "" {
		parts = append(parts, "SN "+d.SerialNumber)
	}
	return strings.Join(parts, ", ")
}
