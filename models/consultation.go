package models

import "time"

type Consultation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	Status    string    `gorm:"type:varchar(20);not null;default:'New'" json:"status"` // New, Contacted, Closed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
