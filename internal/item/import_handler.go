package item

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"profitpulse-backend/internal/audit"
	"profitpulse-backend/internal/auth"
	"profitpulse-backend/internal/database"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
)

type ImportItemsResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Expected sheet layout, first row is the header:
// item_number | name | category | sku | barcode | qty_in_stock | reorder_level | purchase_price | selling_price
//
// POST /api/items/import (multipart field "file")
func ImportItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, err := auth.AdminID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Upload a file in the 'file' field")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not open uploaded file")
		}
		defer file.Close()

		xlsx, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read Excel file")
		}
		defer xlsx.Close()

		sheets := xlsx.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}

		rows, err := xlsx.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read sheet")
		}
		if len(rows) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet has no data rows")
		}

		resp := ImportItemsResponse{Errors: []string{}}

		for i, row := range rows[1:] {
			rowNum := i + 2

			item, rowErr := parseItemRow(row)
			if rowErr != nil {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: %v", rowNum, rowErr))
				continue
			}

			var existing models.Item
			if err := database.DB.Where("item_number = ?", item.ItemNumber).First(&existing).Error; err == nil {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: item number %s already exists", rowNum, item.ItemNumber))
				continue
			}

			if err := database.DB.Create(&item).Error; err != nil {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: could not create item", rowNum))
				continue
			}

			audit.RecordBestEffort(database.DB, audit.Entry{
				AdminID:    adminID,
				Action:     models.AuditActionCreate,
				Resource:   "items",
				ResourceID: item.ID,
				After:      item,
				IPAddress:  c.IP(),
			})
			resp.Imported++
		}

		return httpx.OK(c, resp)
	}
}

func parseItemRow(row []string) (models.Item, error) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	item := models.Item{
		ItemNumber: cell(0),
		Name:       cell(1),
		Category:   cell(2),
		SKU:        cell(3),
		Barcode:    cell(4),
		Status:     models.ItemStatusActive,
	}
	if item.ItemNumber == "" || item.Name == "" {
		return models.Item{}, fmt.Errorf("item_number and name are required")
	}

	if s := cell(5); s != "" {
		qty, err := strconv.Atoi(s)
		if err != nil || qty < 0 {
			return models.Item{}, fmt.Errorf("invalid qty_in_stock %q", s)
		}
		item.QtyInStock = qty
	}
	if s := cell(6); s != "" {
		level, err := strconv.Atoi(s)
		if err != nil || level < 0 {
			return models.Item{}, fmt.Errorf("invalid reorder_level %q", s)
		}
		item.ReorderLevel = level
	}
	if s := cell(7); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Item{}, fmt.Errorf("invalid purchase_price %q", s)
		}
		item.PurchasePrice = price
	}
	if s := cell(8); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Item{}, fmt.Errorf("invalid selling_price %q", s)
		}
		item.SellingPrice = price
	}

	return item, nil
}
