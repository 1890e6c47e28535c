package sale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"profitpulse-backend/internal/audit"
	"profitpulse-backend/internal/models"
)

var (
	ErrEmptySale   = errors.New("sale must contain at least one item")
	ErrBadQuantity = errors.New("item quantity must be greater than zero")
	ErrUnknownItem = errors.New("sale references an unknown item")
)

type LineInput struct {
	ItemID      uint    `json:"item_id"`
	Quantity    int     `json:"quantity"`
	PriceAtSale float64 `json:"price_at_sale"`
}

type CreateInput struct {
	Items          []LineInput `json:"items"`
	PaymentMethod  string      `json:"payment_method"`
	TaxAmount      float64     `json:"tax_amount"`
	DiscountAmount float64     `json:"discount_amount"`
}

// newSaleNumber derives a sale number from the current time plus a
// short random suffix. Uniqueness is not enforced by a constraint;
// collisions are only made astronomically unlikely.
func newSaleNumber() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("SALE-%d-%s", time.Now().UnixMilli(), suffix)
}

// Create runs the sale as one transaction: header, line items, stock
// decrements and the SALE audit row commit together or not at all.
//
// Stock sufficiency is deliberately not checked before the decrement,
// so qty_in_stock can go negative; concurrent sales against the same
// item are serialized by the store's row locking on the UPDATE.
func Create(db *gorm.DB, adminID uint, ip string, in CreateInput) (*models.Sale, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptySale
	}

	var total float64
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
		total += float64(line.Quantity) * line.PriceAtSale
	}
	total = total + in.TaxAmount - in.DiscountAmount

	sale := models.Sale{
		SaleNumber:     newSaleNumber(),
		AdminID:        adminID,
		TotalAmount:    total,
		TaxAmount:      in.TaxAmount,
		DiscountAmount: in.DiscountAmount,
		PaymentMethod:  in.PaymentMethod,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		for _, line := range in.Items {
			saleItem := models.SaleItem{
				SaleID:      sale.ID,
				ItemID:      line.ItemID,
				Quantity:    line.Quantity,
				PriceAtSale: line.PriceAtSale,
				Subtotal:    float64(line.Quantity) * line.PriceAtSale,
			}
			if err := tx.Create(&saleItem).Error; err != nil {
				return err
			}

			res := tx.Model(&models.Item{}).
				Where("id = ?", line.ItemID).
				UpdateColumn("qty_in_stock", gorm.Expr("qty_in_stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %d", ErrUnknownItem, line.ItemID)
			}
		}

		// The audit row rides in the same transaction, unlike the
		// best-effort audit writes on the item/expense paths.
		return audit.Record(tx, audit.Entry{
			AdminID:    adminID,
			Action:     models.AuditActionSale,
			Resource:   "sales",
			ResourceID: sale.ID,
			After: map[string]any{
				"sale_number":  sale.SaleNumber,
				"total_amount": sale.TotalAmount,
				"items":        in.Items,
			},
			IPAddress: ip,
		})
	})
	if err != nil {
		return nil, err
	}

	return &sale, nil
}
