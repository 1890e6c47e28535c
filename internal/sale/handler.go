package sale

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"profitpulse-backend/internal/auth"
	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

type SaleItemResponse struct {
	ItemID      uint    `json:"item_id"`
	Name        string  `json:"name"`
	ItemNumber  string  `json:"item_number"`
	Quantity    int     `json:"quantity"`
	PriceAtSale float64 `json:"price_at_sale"`
	Subtotal    float64 `json:"subtotal"`
}

type SaleResponse struct {
	SaleID         uint               `json:"sale_id"`
	SaleNumber     string             `json:"sale_number"`
	AdminID        uint               `json:"admin_id"`
	Username       string             `json:"username"`
	TotalAmount    float64            `json:"total_amount"`
	TaxAmount      float64            `json:"tax_amount"`
	DiscountAmount float64            `json:"discount_amount"`
	PaymentMethod  string             `json:"payment_method"`
	CreatedAt      time.Time          `json:"created_at"`
	Items          []SaleItemResponse `json:"items"`
}

type ListSalesResponse struct {
	Sales []SaleResponse `json:"sales"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func saleResponse(s *models.Sale) SaleResponse {
	resp := SaleResponse{
		SaleID:         s.ID,
		SaleNumber:     s.SaleNumber,
		AdminID:        s.AdminID,
		TotalAmount:    s.TotalAmount,
		TaxAmount:      s.TaxAmount,
		DiscountAmount: s.DiscountAmount,
		PaymentMethod:  s.PaymentMethod,
		CreatedAt:      s.CreatedAt,
		Items:          make([]SaleItemResponse, 0, len(s.Items)),
	}
	if s.Admin != nil {
		resp.Username = s.Admin.Username
	}
	for _, line := range s.Items {
		item := SaleItemResponse{
			ItemID:      line.ItemID,
			Quantity:    line.Quantity,
			PriceAtSale: line.PriceAtSale,
			Subtotal:    line.Subtotal,
		}
		if line.Item != nil {
			item.Name = line.Item.Name
			item.ItemNumber = line.Item.ItemNumber
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		created, err := Create(database.DB, adminID, c.IP(), body)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptySale), errors.Is(err, ErrBadQuantity), errors.Is(err, ErrUnknownItem):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				log.Error().Err(err).Msg("sale transaction failed")
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create sale")
			}
		}

		return httpx.Created(c, fiber.Map{
			"sale_id":         created.ID,
			"sale_number":     created.SaleNumber,
			"total_amount":    created.TotalAmount,
			"tax_amount":      created.TaxAmount,
			"discount_amount": created.DiscountAmount,
			"payment_method":  created.PaymentMethod,
		})
	}
}

// GET /api/sales?page=1&limit=20&startDate=2026-01-01&endDate=2026-01-31&search=SALE-
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := httpx.ParsePage(c)

		dbq := database.DB.Model(&models.Sale{}).
			Joins("LEFT JOIN admins ON admins.id = sales.admin_id")

		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			dbq = dbq.Where("sales.sale_number LIKE ? OR admins.username LIKE ?", like, like)
		}
		if start, ok := parseDate(c.Query("startDate")); ok {
			dbq = dbq.Where("sales.created_at >= ?", start)
		}
		if end, ok := parseDate(c.Query("endDate")); ok {
			dbq = dbq.Where("sales.created_at < ?", end.AddDate(0, 0, 1))
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		var sales []models.Sale
		err := dbq.
			Preload("Admin").
			Preload("Items.Item").
			Order("sales.created_at DESC, sales.id DESC").
			Limit(page.Limit).Offset(page.Offset()).
			Find(&sales).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		resp := make([]SaleResponse, 0, len(sales))
		for i := range sales {
			resp = append(resp, saleResponse(&sales[i]))
		}

		return httpx.OK(c, ListSalesResponse{
			Sales: resp,
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
		})
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		var s models.Sale
		err = database.DB.
			Preload("Admin").
			Preload("Items.Item").
			First(&s, id).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		return httpx.OK(c, saleResponse(&s))
	}
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
