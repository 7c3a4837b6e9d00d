// /internal/model/order.go
package model

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusFailed    OrderStatus = "failed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Order represents a purchase placed through checkout.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CustomerID uint        `gorm:"not null;index" json:"customerId"`
	Customer   Customer    `gorm:"foreignKey:CustomerID" json:"customer"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Total      float64     `gorm:"not null" json:"total"`
	// --- Shipping ---
	ShippingName       string `gorm:"size:120" json:"shippingName"`
	ShippingStreet     string `gorm:"size:255" json:"shippingStreet"`
	ShippingCity       string `gorm:"size:100" json:"shippingCity"`
	ShippingPostalCode string `gorm:"size:20" json:"shippingPostalCode"`
	ShippingCountry    string `gorm:"size:2" json:"shippingCountry"`
	// ---------------
	ExternalReference string         `gorm:"uniqueIndex" json:"externalReference"` // returned to the buyer for lookups
	Items             []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem represents a line inside an Order.
type OrderItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"orderId"`
	ProductID     uint      `gorm:"not null" json:"productId"`
	Product       Product   `gorm:"foreignKey:ProductID" json:"product"`
	DesignDraftID *string   `gorm:"size:36" json:"designDraftId,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	UnitPrice     float64   `gorm:"not null" json:"unitPrice"` // price at purchase time
	Subtotal      float64   `gorm:"not null" json:"subtotal"`
	CreatedAt     time.Time `json:"createdAt"`
}
