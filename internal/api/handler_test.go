package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"tokoponsel/m/internal/database"
	"tokoponsel/m/internal/ledger"
	"tokoponsel/m/internal/migrations"
	"tokoponsel/m/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	inventory := store.NewInventory(db)
	sales := store.NewSales(db)
	coord := ledger.New(inventory, sales, log, ledger.Options{EnforceAccessoryStock: true})

	srv := httptest.NewServer(New(db, inventory, sales, coord, log, "test_secret").Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return res.StatusCode, payload
}

func registerUser(t *testing.T, srv *httptest.Server, username, email, role string) string {
	t.Helper()
	status, payload := doJSON(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]any{
		"username": username,
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, status)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createUnit(t *testing.T, srv *httptest.Server, token, serial string) int64 {
	t.Helper()
	status, payload := doJSON(t, http.MethodPost, srv.URL+"/units", token, map[string]any{
		"product_name": "Phone X",
		"serial_no":    serial,
		"imei":         "IMEI-" + serial,
		"storage":      "128GB",
		"color":        "Black",
		"warranty":     "iBox",
		"cost_price":   1000000,
		"intake_date":  "2024-01-10",
	})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, true, payload["ok"])
	return int64(payload["id"].(float64))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	status, payload := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, payload["ok"])
	require.NotEmpty(t, payload["db_time"])
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	status, payload := doJSON(t, http.MethodGet, srv.URL+"/units", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, false, payload["ok"])
}

func TestLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "budi", "budi@toko.id", "staff")

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]any{
		"email":    "budi@toko.id",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	token := payload["token"].(string)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/units", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]any{
		"email":    "budi@toko.id",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestUnitValidation(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/units", token, map[string]any{
		"serial_no": "SN1",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, false, payload["ok"])
	require.Contains(t, payload["error"], "product_name is required")
}

func TestListEnvelopeAndPagination(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")

	for i := 1; i <= 15; i++ {
		createUnit(t, srv, token, fmt.Sprintf("SN%02d", i))
	}

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/units?page=2&pageSize=10", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, payload["ok"])
	require.Equal(t, float64(2), payload["page"])
	require.Equal(t, float64(10), payload["pageSize"])
	require.Equal(t, float64(15), payload["total"])
	require.Len(t, payload["data"], 5)
}

func TestSearchFilter(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")
	createUnit(t, srv, token, "SN1")

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/units?q=IBOX", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(1), payload["total"])

	status, payload = doJSON(t, http.MethodGet, srv.URL+"/units?q=nothing-here", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(0), payload["total"])
	require.Len(t, payload["data"], 0)
}

func TestSaleFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")
	unitID := createUnit(t, srv, token, "SN1")

	// Record a sale against the unit.
	status, payload := doJSON(t, http.MethodPost, srv.URL+"/sales", token, map[string]any{
		"invoice_id":   "INV-1",
		"kind":         "UNIT",
		"item_key":     "SN1",
		"sale_date":    "2024-03-01",
		"product_name": "Phone X",
		"sell_price":   1200000,
	})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, true, payload["ok"])
	require.Equal(t, float64(200000), payload["profit"])
	saleID := int64(payload["id"].(float64))

	// The sold unit cannot be deleted.
	status, payload = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/units/%d", srv.URL, unitID), token, nil)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, false, payload["ok"])

	// The salesperson was captured from the session token.
	status, payload = doJSON(t, http.MethodGet, srv.URL+"/sales", token, nil)
	require.Equal(t, http.StatusOK, status)
	rows := payload["data"].([]any)
	require.Len(t, rows, 1)
	require.Equal(t, "admin", rows[0].(map[string]any)["sold_by"])

	// Deleting the sale resets the unit, which can then be deleted.
	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/sales/%d", srv.URL, saleID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/units/%d", srv.URL, unitID), token, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestSaleValidationAndReference(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")

	// Missing required fields.
	status, payload := doJSON(t, http.MethodPost, srv.URL+"/sales", token, map[string]any{
		"kind": "UNIT",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, false, payload["ok"])

	// Kind outside the enum.
	status, payload = doJSON(t, http.MethodPost, srv.URL+"/sales", token, map[string]any{
		"invoice_id":   "INV-1",
		"kind":         "VOUCHER",
		"item_key":     "SN1",
		"sale_date":    "2024-03-01",
		"product_name": "Phone X",
		"sell_price":   1200000,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, payload["error"], "must be one of")

	// Unknown inventory reference.
	status, payload = doJSON(t, http.MethodPost, srv.URL+"/sales", token, map[string]any{
		"invoice_id":   "INV-1",
		"kind":         "UNIT",
		"item_key":     "GHOST",
		"sale_date":    "2024-03-01",
		"product_name": "Phone X",
		"sell_price":   1200000,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, false, payload["ok"])

	// Updating a missing sale is a 404.
	status, _ = doJSON(t, http.MethodPatch, srv.URL+"/sales/42", token, map[string]any{
		"buyer_name": "Andi",
	})
	require.Equal(t, http.StatusNotFound, status)
}

func TestAccessoryFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/accessories", token, map[string]any{
		"sku":          "AC1",
		"product_name": "Charger 20W",
		"cost_price":   100000,
		"quantity":     1,
		"intake_date":  "2024-01-05",
	})
	require.Equal(t, http.StatusCreated, status)
	accID := int64(payload["id"].(float64))

	sale := map[string]any{
		"invoice_id":   "INV-2",
		"kind":         "AKSESORIS",
		"item_key":     "AC1",
		"sale_date":    "2024-03-01",
		"product_name": "Charger 20W",
		"sell_price":   150000,
	}
	status, payload = doJSON(t, http.MethodPost, srv.URL+"/sales", token, sale)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, float64(50000), payload["profit"])

	// Stock floor: the second sale exceeds on-hand quantity.
	status, payload = doJSON(t, http.MethodPost, srv.URL+"/sales", token, sale)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, false, payload["ok"])

	// Accessory deletion has no status guard.
	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/accessories/%d", srv.URL, accID), token, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	admin := registerUser(t, srv, "admin", "admin@toko.id", "admin")
	staff := registerUser(t, srv, "budi", "budi@toko.id", "staff")
	unitID := createUnit(t, srv, admin, "SN1")

	status, payload := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/units/%d", srv.URL, unitID), staff, nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, false, payload["ok"])

	status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/units/%d", srv.URL, unitID), admin, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestProfitReportEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")
	createUnit(t, srv, token, "SN1")
	createUnit(t, srv, token, "SN2")

	for i, serial := range []string{"SN1", "SN2"} {
		status, _ := doJSON(t, http.MethodPost, srv.URL+"/sales", token, map[string]any{
			"invoice_id":   fmt.Sprintf("INV-%d", i),
			"kind":         "UNIT",
			"item_key":     serial,
			"sale_date":    "2024-03-01",
			"product_name": "Phone X",
			"sell_price":   1200000,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/reports/profit?from=2024-03-01&to=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(2), payload["count"])
	require.Equal(t, float64(2400000), payload["revenue"])
	require.Equal(t, float64(400000), payload["profit"])
}

func TestUnitPartialUpdateEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "admin", "admin@toko.id", "admin")
	unitID := createUnit(t, srv, token, "SN1")

	status, _ := doJSON(t, http.MethodPatch, fmt.Sprintf("%s/units/%d", srv.URL, unitID), token, map[string]any{
		"color": "Blue",
	})
	require.Equal(t, http.StatusOK, status)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/units", token, nil)
	require.Equal(t, http.StatusOK, status)
	row := payload["data"].([]any)[0].(map[string]any)
	require.Equal(t, "Blue", row["color"])
	require.Equal(t, "Phone X", row["product_name"])

	status, _ = doJSON(t, http.MethodPatch, srv.URL+"/units/9999", token, map[string]any{"color": "Red"})
	require.Equal(t, http.StatusNotFound, status)
}
