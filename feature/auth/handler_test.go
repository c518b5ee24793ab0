package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"flashdeck/core/database"
	"flashdeck/core/mail"
	coreauth "flashdeck/core/middleware/auth"
	"flashdeck/feature/auth/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) *fiber.App {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.VerificationToken{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	mailer := mail.New(mail.Config{}, zap.NewNop())
	feature := NewFeature(db, mailer, coreauth.Config{Secret: "test-secret", ExpiryHours: 1}, zap.NewNop())

	app := fiber.New()
	api := app.Group("/api")
	assert.NoError(t, feature.Load(api))
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	raw, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(body, &decoded)
	return resp.StatusCode, decoded
}

func TestHandler_RegisterLoginMe(t *testing.T) {
	app := setupTestApp(t)

	status, body := postJSON(t, app, "/api/auth/register", fiber.Map{
		"email":    "alex@example.com",
		"username": "alex",
		"password": "correct-horse",
		"country":  "Germany",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	user, ok := body["user"].(map[string]any)
	if assert.True(t, ok) {
		// The password hash never leaves the server.
		_, exposed := user["password"]
		assert.False(t, exposed)
	}

	status, body = postJSON(t, app, "/api/auth/login", fiber.Map{
		"emailOrUsername": "alex",
		"password":        "correct-horse",
	})
	assert.Equal(t, fiber.StatusOK, status)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)

	req := httptest.NewRequest(fiber.MethodGet, "/api/auth/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var me map[string]any
	assert.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, "alex", me["username"])
}

func TestHandler_MeRequiresToken(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/auth/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_LoginBadCredentials(t *testing.T) {
	app := setupTestApp(t)

	status, body := postJSON(t, app, "/api/auth/login", fiber.Map{
		"emailOrUsername": "nobody",
		"password":        "whatever1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", body["error"])
}
