package ingest

import (
	"flashdeck/core/storage"
	"flashdeck/feature/content"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Feature struct {
	engine   *Engine
	store    *content.Store
	archiver *Archiver
	catalog  *content.Catalog
	logger   *zap.Logger
}

// NewFeature wires the import engine against the content store. The storage
// client may be nil, which disables batch archiving.
func NewFeature(store *content.Store, catalog *content.Catalog, client storage.Client, bucket string, logger *zap.Logger) *Feature {
	return &Feature{
		engine:   NewEngine(store, logger),
		store:    store,
		archiver: NewArchiver(client, bucket, logger),
		catalog:  catalog,
		logger:   logger,
	}
}

func (f *Feature) Name() string { return "ingest" }

func (f *Feature) IsEnabled() bool { return true }

func (f *Feature) Load(app fiber.Router) error {
	handler := NewHandler(f.engine, f.store, f.archiver, f.catalog, f.logger)
	handler.RegisterRoutes(app)
	return nil
}

// Engine exposes the reconciliation engine for CLI commands.
func (f *Feature) Engine() *Engine { return f.engine }
