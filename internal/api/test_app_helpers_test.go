package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/friendorbit/orbit/internal/db"
	"github.com/friendorbit/orbit/internal/logger"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "orbit_test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	handler := NewHandler(database, logger.NewNop(), time.UTC)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, telegramID string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if telegramID != "" {
		request.Header.Set(userHeaderName, telegramID)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeJSON(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func userPath(userID int) string {
	return fmt.Sprintf("/api/users/%d", userID)
}

func registerTestUser(t *testing.T, app *fiber.App, telegramID string) map[string]any {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]any{
		"telegram_id":  telegramID,
		"display_name": "Test User",
		"timezone":     "UTC",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register user: status %d", response.StatusCode)
	}
	var user map[string]any
	decodeJSON(t, response, &user)
	return user
}
