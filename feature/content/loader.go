package content

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// catalogTTL bounds how stale the browse catalog may get between imports.
const catalogTTL = 30 * time.Second

// Feature implements the loader.Feature interface.
type Feature struct {
	store   *Store
	service *Service
	handler *Handler
}

// NewFeature creates the content feature.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	store := NewStore(db)
	svc := NewService(store, logger)
	catalog := NewCatalog(store, catalogTTL)
	h := NewHandler(svc, catalog)
	return &Feature{store: store, service: svc, handler: h}
}

// Store returns the shared content store.
func (f *Feature) Store() *Store {
	return f.store
}

// Service returns the content service, shared with the recount job.
func (f *Feature) Service() *Service {
	return f.service
}

// Catalog returns the browse catalog cache.
func (f *Feature) Catalog() *Catalog {
	return f.handler.catalog
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "content"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
