package models

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Pending -> Shipped -> Delivered, with Cancelled reachable
// from any state that has not shipped yet. Cancelled is terminal.
const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// CustomerInfo is snapshotted into the order at creation time, so later
// profile edits never change historical orders.
type CustomerInfo struct {
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone        string `gorm:"type:varchar(20);not null" json:"phone"`
	GSTNumber    string `gorm:"type:varchar(20);default:'N/A'" json:"gst_number"`
	AddressLine1 string `gorm:"type:varchar(255);not null" json:"address_line1"`
	AddressLine2 string `gorm:"type:varchar(255)" json:"address_line2"`
	City         string `gorm:"type:varchar(100);not null" json:"city"`
	State        string `gorm:"type:varchar(100);not null" json:"state"`
	Pincode      string `gorm:"type:varchar(10);not null" json:"pincode"`
}

type Order struct {
	ID            string          `gorm:"type:varchar(32);primaryKey" json:"id"`
	Customer      CustomerInfo    `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	GSTAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gst_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod string          `gorm:"type:varchar(50);not null;default:'Online (Razorpay)'" json:"payment_method"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

// NewOrderID returns a fresh 32-character hex identifier.
func NewOrderID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// ShortOrderID shortens an order identifier to its human-facing reference:
// the last six characters, uppercased. It is also the ledger row key.
func ShortOrderID(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}

// ShortID is the order's human-facing reference.
func (o *Order) ShortID() string {
	return ShortOrderID(o.ID)
}
