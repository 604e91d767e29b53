package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// OrderPriority defines possible order priorities
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityNormal OrderPriority = "normal"
	PriorityHigh   OrderPriority = "high"
	PriorityUrgent OrderPriority = "urgent"
)

// Order represents one customer service request.
//
// Description, StatusName and CustomerName are cached display columns:
// always computable from the order's devices/status/customer, but persisted
// for fast listing. They start empty and are filled by the recompute pass;
// a non-empty value is never overwritten by that pass.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`

	// Cached display fields (see recompute pass)
	Description  string `gorm:"index" json:"description"`
	StatusName   string `json:"status_name"`
	CustomerName string `gorm:"index" json:"customer_name"`

	Priority OrderPriority `gorm:"default:normal" json:"priority"`

	CustomerID *uint `gorm:"index" json:"customer_id,omitempty"`
	StatusID   *uint `gorm:"index" json:"status_id,omitempty"`
	QueueID    *uint `gorm:"index" json:"queue_id,omitempty"`

	IssueDescription string `gorm:"type:text" json:"issue_description"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Customer *Customer          `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status   *Status            `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Devices  []Device           `gorm:"foreignKey:OrderID" json:"devices,omitempty"`
	Items    []ServiceOrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Notes    []OrderNote        `gorm:"foreignKey:OrderID" json:"notes,omitempty"`
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate generates the order number before creating
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderNumber == "" {
		o.OrderNumber = generateOrderNumber("SRV")
	}
	return nil
}

// IsPhantom reports whether the order carries no payload at all: no customer,
// no devices, no notes and no line items. Phantom orders are leftovers from
// aborted intake and are removed by the purge pass.
//
// Relations must be loaded before calling this.
func (o *Order) IsPhantom() bool {
	return o.CustomerID == nil &&
		len(o.Devices) == 0 &&
		len(o.Notes) == 0 &&
		len(o.Items) == 0
}

// ComputeDescription derives the cached description from the order's device
// set. The primary device is the one with the lowest position (ties broken by
// lowest ID, i.e. attach order). Returns "" for orders without devices.
func (o *Order) ComputeDescription() string {
	if len(o.Devices) == 0 {
		return ""
	}
	primary := o.Devices[0]
	for _, d := range o.Devices[1:] {
		if d.Position < primary.Position || (d.Position == primary.Position && d.ID < primary.ID) {
			primary = d
		}
	}
	label := primary.Label()
	if label == "" {
		return ""
	}
	if extra := len(o.Devices) - 1; extra > 0 {
		return label + " (+" + strconv.Itoa(extra) + ")"
	}
	return label
}

// ComputeStatusName derives the cached status label from the loaded status.
func (o *Order) ComputeStatusName() string {
	if o.Status == nil {
		return ""
	}
	return o.Status.Name
}

// ComputeCustomerName derives the cached customer label from the loaded customer.
func (o *Order) ComputeCustomerName() string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.DisplayName()
}

// OrderNote is a free-text note attached to an order
type OrderNote struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	AuthorID  *string        `gorm:"type:uuid" json:"author_id,omitempty"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for OrderNote model
func (OrderNote) TableName() string {
	return "order_notes"
}

// generateOrderNumber creates a unique order number
func generateOrderNumber(prefix string) string {
	return prefix + time.Now().Format("20060102") + "-" + randomString(4)
}

// randomString generates a random string of given length
func randomString(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	now := time.Now().UnixNano()
	for i := 0; i < length; i++ {
		result[i] = charset[(now+int64(i))%int64(len(charset))]
	}
	return string(result)
}
