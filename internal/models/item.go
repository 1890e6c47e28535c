package models

import "time"

type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)

// Item is never hard-deleted; delete/restore flip Status between
// active and inactive so historical sale lines keep their reference.
type Item struct {
	ID            uint       `gorm:"primaryKey" json:"item_id"`
	ItemNumber    string     `gorm:"size:50;uniqueIndex;not null" json:"item_number"`
	Name          string     `gorm:"size:150;not null" json:"name"`
	Description   string     `gorm:"size:500" json:"description"`
	Category      string     `gorm:"size:100;index" json:"category"`
	SKU           string     `gorm:"size:100" json:"sku"`
	Barcode       string     `gorm:"size:100" json:"barcode"`
	QtyInStock    int        `gorm:"not null;default:0" json:"qty_in_stock"`
	ReorderLevel  int        `gorm:"not null;default:0" json:"reorder_level"`
	PurchasePrice float64    `gorm:"not null;default:0" json:"purchase_price"`
	SellingPrice  float64    `gorm:"not null" json:"selling_price"`
	Status        ItemStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	ImageURL      string     `gorm:"size:255" json:"image_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
