package expense

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"profitpulse-backend/internal/audit"
	"profitpulse-backend/internal/auth"
	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

type CreateExpenseRequest struct {
	Date       string  `json:"date"` // "2026-01-31"
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Notes      string  `json:"notes"`
	ReceiptURL string  `json:"receipt_url"`
}

type UpdateExpenseRequest struct {
	Date       *string  `json:"date"`
	Category   *string  `json:"category"`
	Amount     *float64 `json:"amount"`
	Notes      *string  `json:"notes"`
	ReceiptURL *string  `json:"receipt_url"`
}

type ListExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// POST /api/expenses
func CreateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		date, err := parseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than zero")
		}
		if body.Category == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Category is required")
		}

		exp := models.Expense{
			AdminID:    adminID,
			Date:       date,
			Category:   body.Category,
			Amount:     body.Amount,
			Notes:      body.Notes,
			ReceiptURL: body.ReceiptURL,
		}

		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
		}

		audit.RecordBestEffort(database.DB, audit.Entry{
			AdminID:    adminID,
			Action:     models.AuditActionCreate,
			Resource:   "expenses",
			ResourceID: exp.ID,
			After:      exp,
			IPAddress:  c.IP(),
		})

		return httpx.Created(c, exp)
	}
}

// GET /api/expenses?page=1&limit=20&startDate=2026-01-01&endDate=2026-01-31&category=rent&search=invoice
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := httpx.ParsePage(c)

		dbq := database.DB.Model(&models.Expense{})

		if s := c.Query("startDate"); s != "" {
			if start, err := parseDate(s); err == nil {
				dbq = dbq.Where("date >= ?", start)
			}
		}
		if s := c.Query("endDate"); s != "" {
			if end, err := parseDate(s); err == nil {
				dbq = dbq.Where("date < ?", end.AddDate(0, 0, 1))
			}
		}
		if category := c.Query("category"); category != "" {
			dbq = dbq.Where("category = ?", category)
		}
		if search := c.Query("search"); search != "" {
			dbq = dbq.Where("notes LIKE ?", "%"+search+"%")
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		var expenses []models.Expense
		err := dbq.
			Order("date DESC, created_at DESC, id DESC").
			Limit(page.Limit).Offset(page.Offset()).
			Find(&expenses).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		return httpx.OK(c, ListExpensesResponse{
			Expenses: expenses,
			Total:    total,
			Page:     page.Page,
			Limit:    page.Limit,
		})
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var before models.Expense
		if err := database.DB.First(&before, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}

		updates := map[string]any{}
		if body.Date != nil {
			date, err := parseDate(*body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date must be in YYYY-MM-DD format")
			}
			updates["date"] = date
		}
		if body.Category != nil {
			updates["category"] = *body.Category
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than zero")
			}
			updates["amount"] = *body.Amount
		}
		if body.Notes != nil {
			updates["notes"] = *body.Notes
		}
		if body.ReceiptURL != nil {
			updates["receipt_url"] = *body.ReceiptURL
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&models.Expense{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update expense")
		}

		var after models.Expense
		if err := database.DB.First(&after, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reload expense")
		}

		audit.RecordBestEffort(database.DB, audit.Entry{
			AdminID:    adminID,
			Action:     models.AuditActionUpdate,
			Resource:   "expenses",
			ResourceID: after.ID,
			Before:     before,
			After:      after,
			IPAddress:  c.IP(),
		})

		return httpx.OK(c, after)
	}
}

// DELETE /api/expenses/:id — expenses are hard-deleted, unlike items.
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid expense id")
		}

		var before models.Expense
		if err := database.DB.First(&before, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}

		if err := database.DB.Delete(&models.Expense{}, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete expense")
		}

		audit.RecordBestEffort(database.DB, audit.Entry{
			AdminID:    adminID,
			Action:     models.AuditActionDelete,
			Resource:   "expenses",
			ResourceID: before.ID,
			Before:     before,
			IPAddress:  c.IP(),
		})

		return httpx.OK(c, fiber.Map{"message": "Expense deleted"})
	}
}
