// Package engage implements the community surface around sets and
// questions: ratings, quality reports, comments and product feedback.
package engage

import (
	"flashdeck/core/middleware/auth"
	authfeature "flashdeck/feature/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Feature struct {
	service   *Service
	jwtConfig auth.Config
	logger    *zap.Logger
}

func NewFeature(db *gorm.DB, users *authfeature.Store, jwtConfig auth.Config, logger *zap.Logger) *Feature {
	return &Feature{
		service:   NewService(NewStore(db), users, logger),
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (f *Feature) Name() string { return "engage" }

func (f *Feature) IsEnabled() bool { return f.jwtConfig.Secret != "" }

func (f *Feature) Load(app fiber.Router) error {
	handler := NewHandler(f.service, f.jwtConfig, f.logger)
	handler.RegisterRoutes(app)
	return nil
}
