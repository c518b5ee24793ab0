package auth

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
	grp := app.Group("/auth")
	grp.Post("/register", h.HandleRegister)
	grp.Post("/login", h.HandleLogin)
	grp.Get("/verify-email", h.HandleVerifyEmail)
	grp.Get("/me", auth.New(h.jwtConfig), h.HandleMe)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	status := apperr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRequestID(h.logger, c).Error("auth request failed",
			zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/auth/register [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.service.Register(c.Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful, please check your email to verify your account",
		"user":    user,
	})
}

type loginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// @Summary Log in with email or username
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [post]
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.EmailOrUsername == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "emailOrUsername and password are required"})
	}

	token, user, err := h.service.Login(c.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// @Summary Get the authenticated account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Router /api/auth/me [get]
func (h *Handler) HandleMe(c *fiber.Ctx) error {
	user, err := h.service.GetMe(c.Context(), auth.UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

// @Summary Verify an email address
// @Tags auth
// @Produce json
// @Param token query string true "verification token"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/auth/verify-email [get]
func (h *Handler) HandleVerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}
	if err := h.service.VerifyEmail(c.Context(), token); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}
