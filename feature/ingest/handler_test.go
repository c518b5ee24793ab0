package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"flashdeck/core/storage/mocks"
	"flashdeck/feature/content"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupHandlerApp(t *testing.T) (*fiber.App, *content.Store, *mocks.Client) {
	store := content.NewStore(setupTestDB(t))
	catalog := content.NewCatalog(store, time.Minute)

	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Maybe()

	feature := NewFeature(store, catalog, mockClient, "test-bucket", zap.NewNop())

	app := fiber.New()
	api := app.Group("/api")
	assert.NoError(t, feature.Load(api))
	return app, store, mockClient
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded
}

func TestHandler_AdminAdd(t *testing.T) {
	app, store, mockClient := setupHandlerApp(t)
	ctx := context.Background()

	status, body := postJSON(t, app, "/api/admin/questions", fiber.Map{
		"questions": []fiber.Map{
			{"question": "q1", "answer": "a1", "moduleCode": "PH1", "setCode": "PH1S1", "setOrder": "PH1.1"},
			{"question": "q2", "answer": "a2", "moduleCode": "PH1", "setCode": "PH1S1", "setOrder": "PH1.1"},
		},
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Questions added successfully", body["message"])

	results, ok := body["results"].(map[string]any)
	if assert.True(t, ok) {
		assert.Equal(t, float64(1), results["modulesCreated"])
		assert.Equal(t, float64(1), results["setsCreated"])
		assert.Equal(t, float64(2), results["questionsCreated"])
	}

	count, err := store.CountQuestions(ctx, "PH1S1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	mockClient.AssertCalled(t, "PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_AdminAdd_InvalidModuleCode(t *testing.T) {
	app, store, _ := setupHandlerApp(t)

	status, body := postJSON(t, app, "/api/admin/questions", fiber.Map{
		"questions": []fiber.Map{
			{"question": "q", "answer": "a", "moduleCode": "ph1", "setCode": "PH1S1", "setOrder": "PH1.1"},
		},
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "ph1")

	questions, err := store.ListQuestions(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, questions)
}

func TestHandler_AdminAdd_EmptyBody(t *testing.T) {
	app, _, _ := setupHandlerApp(t)

	status, body := postJSON(t, app, "/api/admin/questions", fiber.Map{"questions": []fiber.Map{}})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestHandler_AdminReplace(t *testing.T) {
	app, store, _ := setupHandlerApp(t)
	ctx := context.Background()

	status, _ := postJSON(t, app, "/api/admin/questions", fiber.Map{
		"questions": []fiber.Map{
			{"question": "old", "answer": "a", "moduleCode": "PH1", "setCode": "PH1S1", "setOrder": "PH1.1"},
		},
	})
	assert.Equal(t, fiber.StatusOK, status)

	status, body := postJSON(t, app, "/api/admin/questions/replace", fiber.Map{
		"questions": []fiber.Map{
			{"question": "new", "answer": "b", "moduleCode": "CH1", "setCode": "CH1S1", "setOrder": "CH1.1"},
		},
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Questions replaced successfully", body["message"])

	old, err := store.FindModuleByCode(ctx, "PH1")
	assert.NoError(t, err)
	assert.Nil(t, old)

	questions, err := store.ListQuestions(ctx)
	assert.NoError(t, err)
	if assert.Len(t, questions, 1) {
		assert.Equal(t, "new", questions[0].Question)
	}
}

func TestHandler_Upload_LegacyDefaults(t *testing.T) {
	app, store, _ := setupHandlerApp(t)
	ctx := context.Background()

	status, body := postJSON(t, app, "/api/upload", fiber.Map{
		"questions": []fiber.Map{
			{"question": "orphan", "answer": "a"},
		},
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Questions uploaded successfully", body["message"])

	questions, err := store.ListQuestions(ctx)
	assert.NoError(t, err)
	if assert.Len(t, questions, 1) {
		assert.Equal(t, "MISC", questions[0].ModuleCode)
		assert.Equal(t, "MISC", questions[0].SetCode)
		assert.Equal(t, "user", questions[0].CreatedBy)
	}

	// The lenient path bypasses reconciliation entirely.
	modules, err := store.ListModules(ctx)
	assert.NoError(t, err)
	assert.Empty(t, modules)
}

func TestHandler_ExcelUpload_FoldsModuleMetadata(t *testing.T) {
	app, store, _ := setupHandlerApp(t)

	status, _ := postJSON(t, app, "/api/upload/excel", fiber.Map{
		"modules": []fiber.Map{
			{"module": "PH1", "moduleName": "Physics I", "moduleDescription": "Intro mechanics"},
		},
		"questions": []fiber.Map{
			{"question": "q", "answer": "a", "moduleCode": "PH1", "setCode": "PH1S1", "setOrder": "PH1.1"},
		},
	})

	assert.Equal(t, fiber.StatusOK, status)

	module, err := store.FindModuleByCode(context.Background(), "PH1")
	assert.NoError(t, err)
	if assert.NotNil(t, module) {
		assert.Equal(t, "Physics I", module.ModuleName)
		assert.Equal(t, "Intro mechanics", module.ModuleDescription)
		assert.Equal(t, "user", module.CreatedBy)
	}
}

func TestHandler_AdminList_Enriched(t *testing.T) {
	app, _, _ := setupHandlerApp(t)

	status, _ := postJSON(t, app, "/api/admin/questions", fiber.Map{
		"questions": []fiber.Map{
			{"question": "q", "answer": "a", "moduleCode": "PH1", "moduleName": "Physics I", "setCode": "PH1S1", "setName": "Mechanics", "setOrder": "PH1.3"},
		},
	})
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/questions", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed []map[string]any
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &listed))
	if assert.Len(t, listed, 1) {
		assert.Equal(t, "Physics I", listed[0]["moduleName"])
		assert.Equal(t, "Mechanics", listed[0]["setName"])
		assert.Equal(t, float64(3), listed[0]["setOrder"])
	}
}

func TestHandler_ExportCSV(t *testing.T) {
	app, _, _ := setupHandlerApp(t)

	status, _ := postJSON(t, app, "/api/admin/questions", fiber.Map{
		"questions": []fiber.Map{
			{"question": "exported question", "answer": "a", "moduleCode": "PH1", "setCode": "PH1S1", "setOrder": "PH1.1"},
		},
	})
	assert.Equal(t, fiber.StatusOK, status)

	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/export", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "exported question")
}

func TestHandler_ExportCSV_Empty(t *testing.T) {
	app, _, _ := setupHandlerApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/export", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
