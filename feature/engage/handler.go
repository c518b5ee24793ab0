package engage

import (
	"errors"

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
	guard := auth.New(h.jwtConfig)

	app.Post("/ratings", guard, h.HandleRateSet)
	app.Get("/ratings", guard, h.HandleListMyRatings)
	app.Get("/ratings/:setCode", h.HandleRatingSummary)

	app.Post("/reports", guard, h.HandleReportQuestion)
	app.Get("/reports", guard, h.HandleListReports)

	app.Post("/comments", guard, h.HandleAddComment)
	app.Get("/comments/:setCode", h.HandleListComments)
	app.Delete("/comments/:id", guard, h.HandleDeleteComment)

	app.Post("/feedback", guard, h.HandleSubmitFeedback)
	app.Get("/feedback", guard, h.HandleListFeedback)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRequestID(h.logger, c).Error("engagement request failed",
			zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type ratingRequest struct {
	SetCode          string `json:"setCode"`
	OverallRating    int    `json:"overallRating"`
	DifficultyRating int    `json:"difficultyRating"`
}

// @Summary Rate a set
// @Tags engage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Rating
// @Failure 400 {object} map[string]string
// @Router /api/ratings [post]
func (h *Handler) HandleRateSet(c *fiber.Ctx) error {
	var req ratingRequest
	if err := c.BodyParser(&req); err != nil || req.SetCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "setCode is required"})
	}

	rating, err := h.service.RateSet(c.Context(), auth.UserID(c), req.SetCode, req.OverallRating, req.DifficultyRating)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rating)
}

func (h *Handler) HandleListMyRatings(c *fiber.Ctx) error {
	ratings, err := h.service.ListMyRatings(c.Context(), auth.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ratings)
}

func (h *Handler) HandleRatingSummary(c *fiber.Ctx) error {
	summary, err := h.service.RatingSummary(c.Context(), c.Params("setCode"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}

type reportRequest struct {
	QuestionID    uint   `json:"questionId"`
	QualityRating int    `json:"qualityRating"`
	Message       string `json:"message"`
}

// @Summary Report a question
// @Tags engage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Report
// @Failure 400 {object} map[string]string
// @Router /api/reports [post]
func (h *Handler) HandleReportQuestion(c *fiber.Ctx) error {
	var req reportRequest
	if err := c.BodyParser(&req); err != nil || req.QuestionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "questionId is required"})
	}

	report, err := h.service.ReportQuestion(c.Context(), auth.UserID(c), req.QuestionID, req.QualityRating, req.Message)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(reports)
}

type commentRequest struct {
	SetCode    string `json:"setCode"`
	QuestionID uint   `json:"questionId"`
	Content    string `json:"content"`
}

// @Summary Post a comment
// @Tags engage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string
// @Router /api/comments [post]
func (h *Handler) HandleAddComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil || req.SetCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "setCode is required"})
	}

	comment, err := h.service.AddComment(c.Context(), auth.UserID(c), req.SetCode, req.QuestionID, req.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *Handler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.service.ListComments(c.Context(), c.Params("setCode"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(comments)
}

// @Summary Delete a comment
// @Tags engage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/comments/{id} [delete]
func (h *Handler) HandleDeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
	}

	if err := h.service.DeleteComment(c.Context(), auth.UserID(c), uint(id)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

type feedbackRequest struct {
	Message      string `json:"message"`
	Improvements string `json:"improvements"`
}

func (h *Handler) HandleSubmitFeedback(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	feedback, err := h.service.SubmitFeedback(c.Context(), auth.UserID(c), req.Message, req.Improvements)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(feedback)
}

func (h *Handler) HandleListFeedback(c *fiber.Ctx) error {
	feedback, err := h.service.ListFeedback(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(feedback)
}
