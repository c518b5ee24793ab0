// Package quiz implements quiz attempts, answer grading, practice progress
// and set recommendations for authenticated users.
package quiz

import (
	"flashdeck/core/middleware/auth"
	"flashdeck/feature/content"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Feature struct {
	service   *Service
	jwtConfig auth.Config
	logger    *zap.Logger
}

func NewFeature(db *gorm.DB, contentStore *content.Store, jwtConfig auth.Config, logger *zap.Logger) *Feature {
	store := NewStore(db)
	return &Feature{
		service:   NewService(store, contentStore, logger),
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (f *Feature) Name() string { return "quiz" }

func (f *Feature) IsEnabled() bool { return f.jwtConfig.Secret != "" }

func (f *Feature) Load(app fiber.Router) error {
	handler := NewHandler(f.service, f.jwtConfig, f.logger)
	handler.RegisterRoutes(app)
	return nil
}

func (f *Feature) Service() *Service { return f.service }
