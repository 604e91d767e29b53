package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry devices and line items refer to.
//
// Code is used as a lookup/slug key elsewhere and must never contain
// whitespace; the code normalization pass enforces this on legacy data.
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Code      string          `gorm:"index" json:"code"`
	Name      string          `gorm:"not null" json:"name"`
	Active    bool            `gorm:"default:true" json:"active"`
	ListPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"list_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for Product model
func (Product) TableName() string {
	return "products"
}
