package item

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"profitpulse-backend/internal/auth"
	"profitpulse-backend/internal/httpx"
	"profitpulse-backend/internal/models"
	"profitpulse-backend/internal/testdb"
)

func newTestApp(adminID uint) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxAdminIDKey, adminID)
		c.Locals(auth.CtxRoleKey, models.RoleAdmin)
		return c.Next()
	})
	app.Get("/api/items", ListItemsHandler())
	app.Get("/api/items/:id", GetItemHandler())
	app.Post("/api/items", CreateItemHandler())
	app.Put("/api/items/:id/restore", RestoreItemHandler())
	app.Put("/api/items/:id", UpdateItemHandler())
	app.Delete("/api/items/:id", DeleteItemHandler())
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func seedAdmin(t *testing.T, db *gorm.DB) models.Admin {
	t.Helper()
	admin := models.Admin{
		Username:     "boss",
		Email:        "boss@example.com",
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func seedItem(t *testing.T, db *gorm.DB, number, name string, qty, reorder int) models.Item {
	t.Helper()
	item := models.Item{
		ItemNumber:   number,
		Name:         name,
		QtyInStock:   qty,
		ReorderLevel: reorder,
		SellingPrice: 9.99,
		Status:       models.ItemStatusActive,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCreateItemWritesAuditRow(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodPost, "/api/items", CreateItemRequest{
		ItemNumber:   "A1",
		Name:         "Widget",
		QtyInStock:   10,
		ReorderLevel: 5,
		SellingPrice: 9.99,
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var created models.Item
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.ItemStatusActive, created.Status)

	var audits []models.Audit
	require.NoError(t, db.Where("resource = ? AND resource_id = ?", "items", created.ID).Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, models.AuditActionCreate, audits[0].Action)
	assert.Equal(t, "null", audits[0].BeforeState)
}

func TestCreateItemRequiresNumberAndName(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodPost, "/api/items", CreateItemRequest{Name: "No number"})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
}

func TestSoftDeleteAndRestoreTouchOnlyStatus(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	item := seedItem(t, db, "A1", "Widget", 10, 5)
	app := newTestApp(admin.ID)

	status, _ := doJSON(t, app, http.MethodDelete, "/api/items/1", nil)
	require.Equal(t, http.StatusOK, status)

	var deleted models.Item
	require.NoError(t, db.First(&deleted, item.ID).Error)
	assert.Equal(t, models.ItemStatusInactive, deleted.Status)
	assert.Equal(t, 10, deleted.QtyInStock)
	assert.Equal(t, "Widget", deleted.Name)

	status, _ = doJSON(t, app, http.MethodPut, "/api/items/1/restore", nil)
	require.Equal(t, http.StatusOK, status)

	var restored models.Item
	require.NoError(t, db.First(&restored, item.ID).Error)
	assert.Equal(t, models.ItemStatusActive, restored.Status)
	assert.Equal(t, 10, restored.QtyInStock)

	var actions []models.AuditAction
	var audits []models.Audit
	require.NoError(t, db.Where("resource = ?", "items").Order("id asc").Find(&audits).Error)
	for _, a := range audits {
		actions = append(actions, a.Action)
	}
	assert.Equal(t, []models.AuditAction{models.AuditActionDelete, models.AuditActionRestore}, actions)
}

func TestSoftDeletePreservesSaleLines(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	item := seedItem(t, db, "A1", "Widget", 10, 5)
	app := newTestApp(admin.ID)

	s := models.Sale{SaleNumber: "SALE-1", AdminID: admin.ID, TotalAmount: 9.99}
	require.NoError(t, db.Create(&s).Error)
	line := models.SaleItem{SaleID: s.ID, ItemID: item.ID, Quantity: 1, PriceAtSale: 9.99, Subtotal: 9.99}
	require.NoError(t, db.Create(&line).Error)

	status, _ := doJSON(t, app, http.MethodDelete, "/api/items/1", nil)
	require.Equal(t, http.StatusOK, status)

	var lines int64
	require.NoError(t, db.Model(&models.SaleItem{}).Where("item_id = ?", item.ID).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)
}

func TestListItemsDefaultsToActive(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	seedItem(t, db, "A1", "Active widget", 10, 5)
	inactive := seedItem(t, db, "B2", "Retired widget", 10, 5)
	require.NoError(t, db.Model(&inactive).Update("status", models.ItemStatusInactive).Error)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, status)

	var data ListItemsResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(1), data.Total)

	status, env = doJSON(t, app, http.MethodGet, "/api/items?status=all", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(2), data.Total)
}

func TestListItemsLowStockFilter(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	seedItem(t, db, "A1", "Plenty", 50, 5)
	seedItem(t, db, "B2", "Short", 3, 5)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodGet, "/api/items?lowStock=true", nil)
	require.Equal(t, http.StatusOK, status)

	var data ListItemsResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, int64(1), data.Total)
	assert.Equal(t, "Short", data.Items[0].Name)
}

func TestListItemsSortByAllowList(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	seedItem(t, db, "A1", "Bravo", 10, 5)
	seedItem(t, db, "B2", "Alpha", 10, 5)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodGet, "/api/items?sortBy=name&sortOrder=asc", nil)
	require.Equal(t, http.StatusOK, status)

	var data ListItemsResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 2)
	assert.Equal(t, "Alpha", data.Items[0].Name)

	// A column outside the allow-list must not error and must fall
	// back to the default sort, never reach the query raw.
	status, env = doJSON(t, app, http.MethodGet, "/api/items?sortBy=name;+DROP+TABLE+items--&sortOrder=asc", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Items, 2)

	var stillThere int64
	require.NoError(t, db.Model(&models.Item{}).Count(&stillThere).Error)
	assert.Equal(t, int64(2), stillThere)
}

func TestListItemsSearch(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	seedItem(t, db, "A1", "Coffee beans", 10, 5)
	seedItem(t, db, "B2", "Tea leaves", 10, 5)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodGet, "/api/items?search=Coffee", nil)
	require.Equal(t, http.StatusOK, status)

	var data ListItemsResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, int64(1), data.Total)
	assert.Equal(t, "A1", data.Items[0].ItemNumber)
}

func TestUpdateItemRecordsBeforeAndAfter(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	item := seedItem(t, db, "A1", "Widget", 10, 5)
	app := newTestApp(admin.ID)

	newName := "Widget Deluxe"
	status, env := doJSON(t, app, http.MethodPut, "/api/items/1", UpdateItemRequest{Name: &newName})
	require.Equal(t, http.StatusOK, status)

	var updated models.Item
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Widget Deluxe", updated.Name)

	var a models.Audit
	require.NoError(t, db.Where("resource = ? AND resource_id = ? AND action = ?",
		"items", item.ID, models.AuditActionUpdate).First(&a).Error)

	var before, after models.Item
	require.NoError(t, json.Unmarshal([]byte(a.BeforeState), &before))
	require.NoError(t, json.Unmarshal([]byte(a.AfterState), &after))
	assert.Equal(t, "Widget", before.Name)
	assert.Equal(t, "Widget Deluxe", after.Name)
}
