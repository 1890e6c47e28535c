package models

import "time"

type Expense struct {
	ID         uint      `gorm:"primaryKey" json:"expense_id"`
	AdminID    uint      `gorm:"index;not null" json:"admin_id"`
	Admin      *Admin    `json:"-"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	Category   string    `gorm:"size:100;index" json:"category"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Notes      string    `gorm:"size:500" json:"notes"`
	ReceiptURL string    `gorm:"size:255" json:"receipt_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
