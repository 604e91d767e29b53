package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer represents a person or company placing service orders
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `gorm:"index" json:"last_name"`
	Company   string         `gorm:"index" json:"company"`
	IsCompany bool           `gorm:"default:false" json:"is_company"`
	Email     string         `gorm:"index" json:"email"`
	Phone     string         `json:"phone"`
	Street    string         `json:"street"`
	Zip       string         `json:"zip"`
	City      string         `json:"city"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}

// DisplayName builds the customer label cached on orders: the company name
// for companies, otherwise "First Last" with missing parts dropped.
func (c *Customer) DisplayName() string {
	if c.IsCompany && c.Company != "" {
		return c.Company
	}
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Company
	}
	return name
}
