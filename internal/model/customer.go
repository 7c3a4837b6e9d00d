// /internal/model/customer.go
package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer is a buyer identified by e-mail. Customers are created at checkout.
type Customer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Phone      string         `gorm:"size:30" json:"phone,omitempty"`
	Street     string         `gorm:"size:255" json:"street,omitempty"`
	City       string         `gorm:"size:100" json:"city,omitempty"`
	PostalCode string         `gorm:"size:20" json:"postalCode,omitempty"`
	Country    string         `gorm:"size:2" json:"country,omitempty"`
	Orders     []Order        `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeSave keeps the stored e-mail normalized.
func (c *Customer) BeforeSave(tx *gorm.DB) error {
	c.Email = NormalizeEmail(c.Email)
	return nil
}
