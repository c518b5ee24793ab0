package quiz

import (
	"flashdeck/core/apperr"
	"flashdeck/core/logger"
	"flashdeck/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service   *Service
	jwtConfig auth.Config
	logger    *zap.Logger
}

func NewHandler(service *Service, jwtConfig auth.Config, log *zap.Logger) *Handler {
	return &Handler{service: service, jwtConfig: jwtConfig, logger: log}
}

func (h *Handler) RegisterRoutes(app fiber.Router) {
	grp := app.Group("/quiz", auth.New(h.jwtConfig))
	grp.Post("/answer", h.HandleRecordAnswer)
	grp.Post("/attempts/:id/complete", h.HandleCompleteAttempt)
	grp.Get("/attempts", h.HandleListAttempts)
	grp.Get("/attempts/:id", h.HandleGetAttempt)
	grp.Post("/progress", h.HandleRecordProgress)
	grp.Get("/progress", h.HandleListProgress)
	grp.Get("/recommendations", h.HandleRecommendations)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRequestID(h.logger, c).Error("quiz request failed",
			zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type answerRequest struct {
	SetCode    string `json:"setCode"`
	QuestionID uint   `json:"questionId"`
	Answer     string `json:"answer"`
}

// @Summary Submit an answer
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AnswerResult
// @Failure 404 {object} map[string]string
// @Router /api/quiz/answer [post]
func (h *Handler) HandleRecordAnswer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil || req.QuestionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "questionId is required"})
	}

	result, err := h.service.RecordAnswer(c.Context(), auth.UserID(c), req.SetCode, req.QuestionID, req.Answer)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

// @Summary Complete an attempt
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.QuizAttempt
// @Failure 404 {object} map[string]string
// @Router /api/quiz/attempts/{id}/complete [post]
func (h *Handler) HandleCompleteAttempt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid attempt id"})
	}

	attempt, err := h.service.CompleteAttempt(c.Context(), auth.UserID(c), uint(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(attempt)
}

func (h *Handler) HandleListAttempts(c *fiber.Ctx) error {
	attempts, err := h.service.ListAttempts(c.Context(), auth.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(attempts)
}

func (h *Handler) HandleGetAttempt(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid attempt id"})
	}

	attempt, err := h.service.GetAttempt(c.Context(), auth.UserID(c), uint(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(attempt)
}

type progressRequest struct {
	SetCode string `json:"setCode"`
}

// @Summary Record practice progress
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /api/quiz/progress [post]
func (h *Handler) HandleRecordProgress(c *fiber.Ctx) error {
	var req progressRequest
	if err := c.BodyParser(&req); err != nil || req.SetCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "setCode is required"})
	}

	if err := h.service.RecordProgress(c.Context(), auth.UserID(c), req.SetCode); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Progress recorded"})
}

func (h *Handler) HandleListProgress(c *fiber.Ctx) error {
	progress, err := h.service.ListProgress(c.Context(), auth.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(progress)
}

// @Summary Recommend unstudied sets
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Success 200 {array} Recommendation
// @Router /api/quiz/recommendations [get]
func (h *Handler) HandleRecommendations(c *fiber.Ctx) error {
	recs, err := h.service.Recommendations(c.Context(), auth.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(recs)
}
