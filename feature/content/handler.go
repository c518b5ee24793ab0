package content

import (
	"strconv"
	"strings"

	"flashdeck/core/apperr"
	"flashdeck/core/logger"
	"flashdeck/feature/content/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for content browsing and CRUD.
type Handler struct {
	service *Service
	catalog *Catalog
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, catalog *Catalog) *Handler {
	return &Handler{service: service, catalog: catalog}
}

// RegisterRoutes registers the content routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/catalog", h.HandleGetCatalog)
	app.Get("/search", h.HandleSearch)

	mods := app.Group("/modules")
	mods.Get("/", h.HandleListModules)
	mods.Post("/", h.HandleCreateModule)
	mods.Get("/:moduleCode", h.HandleGetModule)
	mods.Put("/:moduleCode", h.HandleUpdateModule)
	mods.Delete("/:moduleCode", h.HandleDeleteModule)
	mods.Get("/:moduleCode/sets", h.HandleListSetsByModule)

	sets := app.Group("/sets")
	sets.Get("/", h.HandleListSets)
	sets.Post("/", h.HandleCreateSet)
	sets.Get("/:setCode", h.HandleGetSet)
	sets.Put("/:setCode", h.HandleUpdateSet)
	sets.Delete("/:setCode", h.HandleDeleteSet)
	sets.Get("/:setCode/questions", h.HandleListQuestionsBySet)

	questions := app.Group("/questions")
	questions.Get("/", h.HandleListQuestions)
	questions.Post("/", h.HandleCreateQuestion)
	questions.Delete("/:id", h.HandleDeleteQuestion)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRequestID(h.service.logger, c)
	status := apperr.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		l.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleGetCatalog returns the cached module/set catalog.
// @Summary Browse catalog
// @Description Returns all modules with their sets, served from a short-lived cache.
// @Tags content
// @Produce json
// @Success 200 {array} content.CatalogEntry
// @Router /api/catalog [get]
func (h *Handler) HandleGetCatalog(c *fiber.Ctx) error {
	entries, err := h.catalog.Get(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entries)
}

// HandleSearch searches modules, sets and questions.
// @Summary Search content
// @Tags content
// @Produce json
// @Param query query string true "Search query (min 2 characters)"
// @Success 200 {object} content.SearchResults
// @Failure 400 {object} map[string]string
// @Router /api/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if len(query) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query must be at least 2 characters",
		})
	}
	results, err := h.service.Search(c.Context(), query)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(results)
}

func (h *Handler) HandleListModules(c *fiber.Ctx) error {
	modules, err := h.service.ListModules(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(modules)
}

func (h *Handler) HandleCreateModule(c *fiber.Ctx) error {
	var m models.Module
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if m.ModuleCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Module code is required"})
	}
	if err := h.service.CreateModule(c.Context(), &m); err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *Handler) HandleGetModule(c *fiber.Ctx) error {
	detail, err := h.service.GetModule(c.Context(), c.Params("moduleCode"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

func (h *Handler) HandleUpdateModule(c *fiber.Ctx) error {
	var body struct {
		ModuleName        string `json:"moduleName"`
		ModuleDescription string `json:"moduleDescription"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	m, err := h.service.UpdateModule(c.Context(), c.Params("moduleCode"), body.ModuleName, body.ModuleDescription)
	if err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()
	return c.JSON(m)
}

// HandleDeleteModule deletes a module without sets.
// @Summary Delete module
// @Tags content
// @Produce json
// @Param moduleCode path string true "Module code"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Module still contains sets"
// @Router /api/modules/{moduleCode} [delete]
func (h *Handler) HandleDeleteModule(c *fiber.Ctx) error {
	if err := h.service.DeleteModule(c.Context(), c.Params("moduleCode")); err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()
	return c.JSON(fiber.Map{"message": "Module deleted successfully"})
}

func (h *Handler) HandleListSetsByModule(c *fiber.Ctx) error {
	sets, err := h.service.ListSetsByModule(c.Context(), c.Params("moduleCode"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sets)
}

func (h *Handler) HandleListSets(c *fiber.Ctx) error {
	sets, err := h.service.ListSets(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sets)
}

func (h *Handler) HandleCreateSet(c *fiber.Ctx) error {
	var set models.Set
	if err := c.BodyParser(&set); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if set.SetCode == "" || set.ModuleCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Set code and module code are required"})
	}
	if err := h.service.CreateSet(c.Context(), &set); err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()
	return c.Status(fiber.StatusCreated).JSON(set)
}

func (h *Handler) HandleGetSet(c *fiber.Ctx) error {
	detail, err := h.service.GetSet(c.Context(), c.Params("setCode"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

func (h *Handler) HandleUpdateSet(c *fiber.Ctx) error {
	var upd SetUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	set, err := h.service.UpdateSet(c.Context(), c.Params("setCode"), upd)
	if err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()
	return c.JSON(set)
}

func (h *Handler) HandleDeleteSet(c *fiber.Ctx) error {
	if err := h.service.DeleteSet(c.Context(), c.Params("setCode")); err != nil {
		return h.fail(c, err)
	}
	h.catalog.Invalidate()
	return c.JSON(fiber.Map{"message": "Set deleted successfully"})
}

func (h *Handler) HandleListQuestionsBySet(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestionsBySet(c.Context(), c.Params("setCode"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(questions)
}

func (h *Handler) HandleListQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestions(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(questions)
}

func (h *Handler) HandleCreateQuestion(c *fiber.Ctx) error {
	var q models.Question
	if err := c.BodyParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if q.SetCode == "" || q.ModuleCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Set code and module code are required"})
	}
	if err := h.service.CreateQuestion(c.Context(), &q); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

func (h *Handler) HandleDeleteQuestion(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question id"})
	}
	if err := h.service.DeleteQuestion(c.Context(), uint(id)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Question deleted successfully"})
}
