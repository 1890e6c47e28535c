package models

import "time"

// Sale is immutable once created; there are no update or delete paths.
type Sale struct {
	ID             uint       `gorm:"primaryKey" json:"sale_id"`
	SaleNumber     string     `gorm:"size:50;index;not null" json:"sale_number"`
	AdminID        uint       `gorm:"index;not null" json:"admin_id"`
	Admin          *Admin     `json:"-"`
	TotalAmount    float64    `gorm:"not null" json:"total_amount"`
	TaxAmount      float64    `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64    `gorm:"not null;default:0" json:"discount_amount"`
	PaymentMethod  string     `gorm:"size:50" json:"payment_method"`
	Items          []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

// SaleItem snapshots quantity and price at transaction time; later item
// price changes do not affect it.
type SaleItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SaleID      uint    `gorm:"index;not null" json:"sale_id"`
	ItemID      uint    `gorm:"index;not null" json:"item_id"`
	Item        *Item   `json:"-"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	PriceAtSale float64 `gorm:"not null" json:"price_at_sale"`
	Subtotal    float64 `gorm:"not null" json:"subtotal"`
}
