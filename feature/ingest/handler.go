package ingest

import (
	"fmt"
	"time"

	"flashdeck/core/apperr"
	"flashdeck/core/logger"
	"flashdeck/feature/content"
	"flashdeck/feature/content/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles the upload and admin import endpoints.
type Handler struct {
	engine   *Engine
	store    *content.Store
	archiver *Archiver
	catalog  *content.Catalog
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *Engine, store *content.Store, archiver *Archiver, catalog *content.Catalog, log *zap.Logger) *Handler {
	return &Handler{engine: engine, store: store, archiver: archiver, catalog: catalog, logger: log}
}

// RegisterRoutes registers the upload and admin routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	upload := app.Group("/upload")
	upload.Post("/", h.HandleUpload)
	upload.Post("/excel", h.HandleExcelUpload)

	admin := app.Group("/admin")
	admin.Post("/questions", h.HandleAdminAdd)
	admin.Post("/questions/replace", h.HandleAdminReplace)
	admin.Get("/questions", h.HandleAdminList)
	admin.Get("/export", h.HandleExportCSV)
}

type questionsBody struct {
	Questions []Row `json:"questions"`
}

type excelBody struct {
	Modules   []ModuleMeta `json:"modules"`
	Questions []Row        `json:"questions"`
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRequestID(h.logger, c)
	l.Error("import request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

// HandleUpload is the lenient legacy insert path: rows are stored as
// questions with per-field defaults, without touching modules or sets.
// @Summary Upload questions (legacy)
// @Tags upload
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	var body questionsBody
	if err := c.BodyParser(&body); err != nil || len(body.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or empty questions array"})
	}

	h.archiver.Archive(c.Context(), c.Body())

	questions := make([]models.Question, 0, len(body.Questions))
	for _, row := range body.Questions {
		moduleCode := row.ModuleCode
		if moduleCode == "" {
			moduleCode = "MISC"
		}
		setCode := row.SetCode
		if setCode == "" {
			setCode = "MISC"
		}
		setName := row.SetName
		if setName == "" {
			setName = setCode
		}
		questions = append(questions, models.Question{
			Question:       row.Question,
			Answer:         row.Answer,
			MoreInfo:       row.MoreInfo,
			ModuleCode:     moduleCode,
			SetCode:        setCode,
			SetName:        setName,
			SetDescription: row.SetDescription,
			SerialNumber:   row.SerialNumber,
			CreatedBy:      models.CreatedByUser,
		})
	}
	if err := h.store.BulkInsertQuestions(c.Context(), questions); err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Questions uploaded successfully",
		"count":   len(questions),
	})
}

// HandleExcelUpload processes a spreadsheet-derived batch carrying a separate
// module metadata block alongside the question rows.
// @Summary Upload spreadsheet batch
// @Tags upload
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/upload/excel [post]
func (h *Handler) HandleExcelUpload(c *fiber.Ctx) error {
	var body excelBody
	if err := c.BodyParser(&body); err != nil || len(body.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No valid questions found in the upload"})
	}

	h.archiver.Archive(c.Context(), c.Body())

	// Fold the module metadata block onto the matching rows so the engine
	// sees one uniform row shape.
	meta := make(map[string]ModuleMeta, len(body.Modules))
	for _, m := range body.Modules {
		meta[m.Module] = m
	}
	for i := range body.Questions {
		if m, ok := meta[body.Questions[i].ModuleCode]; ok {
			if body.Questions[i].ModuleName == "" {
				body.Questions[i].ModuleName = m.ModuleName
			}
			if body.Questions[i].ModuleDescription == "" {
				body.Questions[i].ModuleDescription = m.ModuleDescription
			}
		}
	}

	result, err := h.engine.Process(c.Context(), body.Questions, Options{CreatedBy: models.CreatedByUser})
	if err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()

	return c.JSON(fiber.Map{
		"message": "Upload processed successfully",
		"results": result,
	})
}

// HandleAdminAdd imports a batch incrementally.
// @Summary Add questions (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/admin/questions [post]
func (h *Handler) HandleAdminAdd(c *fiber.Ctx) error {
	return h.runAdminImport(c, false, "Questions added successfully")
}

// HandleAdminReplace wipes all content and imports the batch from scratch.
// @Summary Replace all questions (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/admin/questions/replace [post]
func (h *Handler) HandleAdminReplace(c *fiber.Ctx) error {
	return h.runAdminImport(c, true, "Questions replaced successfully")
}

func (h *Handler) runAdminImport(c *fiber.Ctx, replace bool, message string) error {
	var body questionsBody
	if err := c.BodyParser(&body); err != nil || len(body.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or empty questions array"})
	}

	h.archiver.Archive(c.Context(), c.Body())

	result, err := h.engine.Process(c.Context(), body.Questions, Options{
		Replace:   replace,
		CreatedBy: models.CreatedByAdmin,
	})
	if err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()

	return c.JSON(fiber.Map{
		"message": message,
		"results": result,
	})
}

// enrichedQuestion is a question joined with its module and set metadata for
// the admin listing.
type enrichedQuestion struct {
	models.Question
	ModuleName        string  `json:"moduleName"`
	ModuleDescription string  `json:"moduleDescription"`
	SetOrder          float64 `json:"setOrder"`
}

// HandleAdminList returns all questions enriched with module and set info.
func (h *Handler) HandleAdminList(c *fiber.Ctx) error {
	questions, err := h.store.ListQuestions(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	modules, err := h.store.ListModules(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	sets, err := h.store.ListSets(c.Context())
	if err != nil {
		return h.fail(c, err)
	}

	modulesByCode := make(map[string]models.Module, len(modules))
	for _, m := range modules {
		modulesByCode[m.ModuleCode] = m
	}
	setsByCode := make(map[string]models.Set, len(sets))
	for _, s := range sets {
		setsByCode[s.SetCode] = s
	}

	out := make([]enrichedQuestion, 0, len(questions))
	for _, q := range questions {
		e := enrichedQuestion{Question: q, ModuleName: q.ModuleCode, SetOrder: 0}
		if m, ok := modulesByCode[q.ModuleCode]; ok {
			e.ModuleName = m.ModuleName
			e.ModuleDescription = m.ModuleDescription
		}
		if s, ok := setsByCode[q.SetCode]; ok {
			e.SetName = s.SetName
			e.SetDescription = s.SetDescription
			e.SetOrder = s.SetOrder
		}
		out = append(out, e)
	}
	return c.JSON(out)
}

// HandleExportCSV streams all questions as a CSV attachment.
// @Summary Export questions as CSV (admin)
// @Tags admin
// @Produce text/csv
// @Success 200 {string} string "CSV document"
// @Failure 404 {object} map[string]string
// @Router /api/admin/export [get]
func (h *Handler) HandleExportCSV(c *fiber.Ctx) error {
	data, err := BuildCSV(c.Context(), h.store)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("flashcards_export_%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
