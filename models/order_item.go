package models

import (
	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"type:varchar(32);not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order    Order           `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	HSNCode  string          `gorm:"type:varchar(20);default:'N/A'" json:"hsn_code"`
	Quantity int             `gorm:"not null;default:1" json:"quantity"`
}
