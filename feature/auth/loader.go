// Package auth implements account registration, login and email
// verification on top of the shared JWT middleware.
package auth

import (
	"flashdeck/core/mail"
	"flashdeck/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Feature struct {
	store     *Store
	service   *Service
	jwtConfig auth.Config
	logger    *zap.Logger
}

func NewFeature(db *gorm.DB, mailer mail.Mailer, jwtConfig auth.Config, logger *zap.Logger) *Feature {
	store := NewStore(db)
	return &Feature{
		store:     store,
		service:   NewService(store, mailer, jwtConfig, logger),
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (f *Feature) Name() string { return "auth" }

func (f *Feature) IsEnabled() bool { return f.jwtConfig.Secret != "" }

func (f *Feature) Load(app fiber.Router) error {
	handler := NewHandler(f.service, f.jwtConfig, f.logger)
	handler.RegisterRoutes(app)
	return nil
}

func (f *Feature) Service() *Service { return f.service }

func (f *Feature) Store() *Store { return f.store }
