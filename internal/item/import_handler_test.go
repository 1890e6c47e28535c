package item

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"profitpulse-backend/internal/models"
	"profitpulse-backend/internal/testdb"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	xlsx := excelize.NewFile()
	defer xlsx.Close()
	sheet := xlsx.GetSheetName(0)

	header := []any{"item_number", "name", "category", "sku", "barcode",
		"qty_in_stock", "reorder_level", "purchase_price", "selling_price"}
	require.NoError(t, xlsx.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, xlsx.SetSheetRow(sheet, cellRef, &row))
	}

	buf, err := xlsx.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func doImport(t *testing.T, adminID uint, buf *bytes.Buffer) (int, ImportItemsResponse) {
	t.Helper()

	app := newTestApp(adminID)
	app.Post("/api/items/import", ImportItemsHandler())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "items.xlsx")
	require.NoError(t, err)
	_, err = part.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/items/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var data ImportItemsResponse
	if env.Success {
		require.NoError(t, json.Unmarshal(env.Data, &data))
	}
	return resp.StatusCode, data
}

func TestImportItemsCreatesRowsAndAudits(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)

	buf := buildWorkbook(t, [][]any{
		{"A1", "Widget", "tools", "SKU-1", "123", 10, 5, 2.5, 9.99},
		{"B2", "Gadget", "tools", "", "", 3, 2, 1.0, 4.0},
	})

	status, data := doImport(t, admin.ID, buf)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, data.Imported)
	assert.Equal(t, 0, data.Skipped)
	assert.Empty(t, data.Errors)

	var widget models.Item
	require.NoError(t, db.Where("item_number = ?", "A1").First(&widget).Error)
	assert.Equal(t, 10, widget.QtyInStock)
	assert.Equal(t, 9.99, widget.SellingPrice)
	assert.Equal(t, models.ItemStatusActive, widget.Status)

	var audits int64
	require.NoError(t, db.Model(&models.Audit{}).
		Where("resource = ? AND action = ?", "items", models.AuditActionCreate).
		Count(&audits).Error)
	assert.Equal(t, int64(2), audits)
}

func TestImportItemsSkipsDuplicatesAndBadRows(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	seedItem(t, db, "A1", "Existing widget", 1, 1)

	buf := buildWorkbook(t, [][]any{
		{"A1", "Duplicate widget", "", "", "", 1, 1, 1.0, 2.0},
		{"", "Missing number", "", "", "", 1, 1, 1.0, 2.0},
		{"C3", "Bad qty", "", "", "", "lots", 1, 1.0, 2.0},
		{"D4", "Good one", "", "", "", 4, 1, 1.0, 2.0},
	})

	status, data := doImport(t, admin.ID, buf)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, data.Imported)
	assert.Equal(t, 3, data.Skipped)
	require.Len(t, data.Errors, 3)
	assert.Contains(t, data.Errors[0], "already exists")

	var count int64
	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestImportItemsRejectsEmptySheet(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)

	buf := buildWorkbook(t, nil)
	status, _ := doImport(t, admin.ID, buf)
	assert.Equal(t, http.StatusBadRequest, status)
}
