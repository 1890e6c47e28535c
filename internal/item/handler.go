package item

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"profitpulse-backend/internal/audit"
	"profitpulse-backend/internal/auth"
	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

type CreateItemRequest struct {
	ItemNumber    string  `json:"item_number"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	SKU           string  `json:"sku"`
	Barcode       string  `json:"barcode"`
	QtyInStock    int     `json:"qty_in_stock"`
	ReorderLevel  int     `json:"reorder_level"`
	PurchasePrice float64 `json:"purchase_price"`
	SellingPrice  float64 `json:"selling_price"`
	ImageURL      string  `json:"image_url"`
}

type UpdateItemRequest struct {
	ItemNumber    *string  `json:"item_number"`
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	SKU           *string  `json:"sku"`
	Barcode       *string  `json:"barcode"`
	QtyInStock    *int     `json:"qty_in_stock"`
	ReorderLevel  *int     `json:"reorder_level"`
	PurchasePrice *float64 `json:"purchase_price"`
	SellingPrice  *float64 `json:"selling_price"`
	ImageURL      *string  `json:"image_url"`
}

type ListItemsResponse struct {
	Items []models.Item `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// Sort columns that may be interpolated into ORDER BY. Anything else
// silently falls back to created_at.
var allowedSortColumns = map[string]bool{
	"item_number":   true,
	"name":          true,
	"category":      true,
	"qty_in_stock":  true,
	"selling_price": true,
	"created_at":    true,
}

func sortClause(sortBy, sortOrder string) string {
	column := "created_at"
	if allowedSortColumns[sortBy] {
		column = sortBy
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	// Secondary sort on the primary key keeps pagination stable.
	return column + " " + direction + ", id " + direction
}

// GET /api/items?page=1&limit=20&search=widget&status=active&lowStock=true&sortBy=name&sortOrder=asc
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := httpx.ParsePage(c)

		dbq := database.DB.Model(&models.Item{})

		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			dbq = dbq.Where("name LIKE ? OR item_number LIKE ? OR sku LIKE ?", like, like, like)
		}

		// Without an explicit status filter only active items are
		// listed; status=all disables the filter.
		switch status := c.Query("status"); status {
		case "":
			dbq = dbq.Where("status = ?", models.ItemStatusActive)
		case "all":
		default:
			dbq = dbq.Where("status = ?", status)
		}

		if c.Query("lowStock") == "true" {
			dbq = dbq.Where("qty_in_stock <= reorder_level")
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list items")
		}

		var items []models.Item
		err := dbq.
			Order(sortClause(c.Query("sortBy"), c.Query("sortOrder"))).
			Limit(page.Limit).Offset(page.Offset()).
			Find(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list items")
		}

		return httpx.OK(c, ListItemsResponse{
			Items: items,
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
		})
	}
}

// GET /api/items/:id
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var item models.Item
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		return httpx.OK(c, item)
	}
}

// POST /api/items
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.ItemNumber = strings.TrimSpace(body.ItemNumber)
		body.Name = strings.TrimSpace(body.Name)
		if body.ItemNumber == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Item number and name are required")
		}
		if body.QtyInStock < 0 || body.ReorderLevel < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stock quantities cannot be negative")
		}

		item := models.Item{
			ItemNumber:    body.ItemNumber,
			Name:          body.Name,
			Description:   body.Description,
			Category:      body.Category,
			SKU:           body.SKU,
			Barcode:       body.Barcode,
			QtyInStock:    body.QtyInStock,
			ReorderLevel:  body.ReorderLevel,
			PurchasePrice: body.PurchasePrice,
			SellingPrice:  body.SellingPrice,
			Status:        models.ItemStatusActive,
			ImageURL:      body.ImageURL,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create item")
		}

		audit.RecordBestEffort(database.DB, audit.Entry{
			AdminID:    adminID,
			Action:     models.AuditActionCreate,
			Resource:   "items",
			ResourceID: item.ID,
			After:      item,
			IPAddress:  c.IP(),
		})

		return httpx.Created(c, item)
	}
}

// PUT /api/items/:id
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var before models.Item
		if err := database.DB.First(&before, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		updates := map[string]any{}
		if body.ItemNumber != nil {
			updates["item_number"] = strings.TrimSpace(*body.ItemNumber)
		}
		if body.Name != nil {
			updates["name"] = strings.TrimSpace(*body.Name)
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if body.Category != nil {
			updates["category"] = *body.Category
		}
		if body.SKU != nil {
			updates["sku"] = *body.SKU
		}
		if body.Barcode != nil {
			updates["barcode"] = *body.Barcode
		}
		if body.QtyInStock != nil {
			if *body.QtyInStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Stock quantities cannot be negative")
			}
			updates["qty_in_stock"] = *body.QtyInStock
		}
		if body.ReorderLevel != nil {
			if *body.ReorderLevel < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Stock quantities cannot be negative")
			}
			updates["reorder_level"] = *body.ReorderLevel
		}
		if body.PurchasePrice != nil {
			updates["purchase_price"] = *body.PurchasePrice
		}
		if body.SellingPrice != nil {
			updates["selling_price"] = *body.SellingPrice
		}
		if body.ImageURL != nil {
			updates["image_url"] = *body.ImageURL
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		if err := database.DB.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update item")
		}

		var after models.Item
		if err := database.DB.First(&after, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reload item")
		}

		audit.RecordBestEffort(database.DB, audit.Entry{
			AdminID:    adminID,
			Action:     models.AuditActionUpdate,
			Resource:   "items",
			ResourceID: after.ID,
			Before:     before,
			After:      after,
			IPAddress:  c.IP(),
		})

		return httpx.OK(c, after)
	}
}

// DELETE /api/items/:id — soft delete, the row is kept.
func DeleteItemHandler() fiber.Handler {
	return setStatusHandler(models.ItemStatusInactive, models.AuditActionDelete, "Item deleted")
}

// PUT /api/items/:id/restore
func RestoreItemHandler() fiber.Handler {
	return setStatusHandler(models.ItemStatusActive, models.AuditActionRestore, "Item restored")
}

// setStatusHandler flips only the status column; every other field and
// all historical sale lines stay untouched.
func setStatusHandler(status models.ItemStatus, action models.AuditAction, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid item id")
		}

		var before models.Item
		if err := database.DB.First(&before, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}

		if err := database.DB.Model(&models.Item{}).Where("id = ?", id).
			Update("status", status).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update item")
		}

		audit.RecordBestEffort(database.DB, audit.Entry{
			AdminID:    adminID,
			Action:     action,
			Resource:   "items",
			ResourceID: before.ID,
			Before:     before,
			IPAddress:  c.IP(),
		})

		return httpx.OK(c, fiber.Map{"message": message})
	}
}
