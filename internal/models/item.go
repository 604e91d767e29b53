package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceOrderItem is a billable line item on a service order (labor, parts,
// flat-rate positions).
//
// Code carries the same whitespace-free invariant as Product.Code.
type ServiceOrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	Code      string          `gorm:"index" json:"code"`
	Title     string          `gorm:"not null" json:"title"`
	Quantity  decimal.Decimal `gorm:"type:numeric(12,3);default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for ServiceOrderItem model
func (ServiceOrderItem) TableName() string {
	return "service_order_items"
}

// Total returns quantity times unit price
func (i *ServiceOrderItem) Total() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}
