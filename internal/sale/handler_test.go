package sale

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
	app.Get("/api/sales", ListSalesHandler())
	app.Get("/api/sales/:id", GetSaleHandler())
	app.Post("/api/sales", CreateSaleHandler())
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

func TestCreateSaleEndpoint(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	item := seedItem(t, db, "A1", 10, 9.99)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodPost, "/api/sales", CreateInput{
		Items:         []LineInput{{ItemID: item.ID, Quantity: 3, PriceAtSale: 9.99}},
		PaymentMethod: "cash",
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.InDelta(t, 29.97, data["total_amount"].(float64), 1e-9)
}

func TestCreateSaleEndpointRejectsEmptySale(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodPost, "/api/sales", CreateInput{PaymentMethod: "cash"})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, http.StatusBadRequest, env.Error.Status)

	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListSalesIncludesLineItemsAndUsername(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	item := seedItem(t, db, "A1", 10, 9.99)
	app := newTestApp(admin.ID)

	_, err := Create(db, admin.ID, "", CreateInput{
		Items:         []LineInput{{ItemID: item.ID, Quantity: 2, PriceAtSale: 9.99}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	status, env := doJSON(t, app, http.MethodGet, "/api/sales?page=1&limit=20", nil)
	require.Equal(t, http.StatusOK, status)

	var data ListSalesResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, int64(1), data.Total)
	require.Len(t, data.Sales, 1)
	assert.Equal(t, "cashier", data.Sales[0].Username)
	require.Len(t, data.Sales[0].Items, 1)
	assert.Equal(t, "Widget A1", data.Sales[0].Items[0].Name)
}

func TestListSalesSearchBySaleNumber(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	item := seedItem(t, db, "A1", 10, 9.99)
	app := newTestApp(admin.ID)

	created, err := Create(db, admin.ID, "", CreateInput{
		Items:         []LineInput{{ItemID: item.ID, Quantity: 1, PriceAtSale: 9.99}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	status, env := doJSON(t, app, http.MethodGet, "/api/sales?search="+created.SaleNumber, nil)
	require.Equal(t, http.StatusOK, status)

	var data ListSalesResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(1), data.Total)

	status, env = doJSON(t, app, http.MethodGet, "/api/sales?search=no-such-sale", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(0), data.Total)
}

func TestGetSaleNotFound(t *testing.T) {
	db := testdb.New(t)
	admin := seedAdmin(t, db)
	app := newTestApp(admin.ID)

	status, env := doJSON(t, app, http.MethodGet, "/api/sales/999", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, env.Success)
}
