package inventory

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rental-manager/feature/inventory/models"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db := setupDB(t)
	seedEvent(t, db)

	app := fiber.New()
	NewHandler(NewService(db, zap.NewNop(), nil)).RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, map[string]any) {
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

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHandleGetInventory(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/inventories/1", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Open Air Festival", body["title"])
	assert.Equal(t, false, body["is_return_inventory_done"])
	assert.Len(t, body["materials"], 2)
}

func TestHandleGetInventory_NotFound(t *testing.T) {
	app := setupApp(t)

	for _, target := range []string{"/inventories/99", "/inventories/abc"} {
		resp, body := doJSON(t, app, fiber.MethodGet, target, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, target)

		envelope := body["error"].(map[string]any)
		assert.Equal(t, float64(fiber.StatusNotFound), envelope["code"])
	}
}

func TestHandleSaveInventory(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodPut, "/inventories/1", []models.QuantityInput{
		{ID: 1, Actual: 2, Broken: 1},
		{ID: 2, Actual: 2},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	materials := body["materials"].([]any)
	first := materials[0].(map[string]any)
	pivot := first["pivot"].(map[string]any)
	assert.Equal(t, float64(2), pivot["quantity_returned"])
	assert.Equal(t, float64(1), pivot["quantity_broken"])
}

func TestHandleSaveInventory_BadBody(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(fiber.MethodPut, "/inventories/1", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleSaveInventory_ValidationEnvelope(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodPut, "/inventories/1", []models.QuantityInput{
		{ID: 1, Actual: 1, Broken: 2},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	envelope := body["error"].(map[string]any)
	assert.Equal(t, float64(400), envelope["code"])

	details := envelope["details"].(map[string]any)
	messages := details["0.broken"].([]any)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0], "exceed")
}

func TestHandleTerminateInventory(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, fiber.MethodPut, "/inventories/1/terminate", []models.QuantityInput{
		{ID: 1, Actual: 3},
		{ID: 2, Actual: 2},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["is_return_inventory_done"])

	// A second terminate, or a late draft save, is a conflict.
	for _, target := range []string{"/inventories/1/terminate", "/inventories/1"} {
		resp, body = doJSON(t, app, fiber.MethodPut, target, []models.QuantityInput{})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode, target)

		envelope := body["error"].(map[string]any)
		assert.Equal(t, float64(fiber.StatusConflict), envelope["code"])
	}
}
