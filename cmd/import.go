package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"flashdeck/core/config"
	"flashdeck/core/database"
	"flashdeck/core/logger"
	"flashdeck/feature/content"
	"flashdeck/feature/content/models"
	"flashdeck/feature/ingest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importFile    string
	importReplace bool
)

// importCmd bulk-loads a JSON batch of question rows without going through
// the HTTP API. Useful for seeding a fresh database.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a question batch from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		payload, err := os.ReadFile(importFile)
		if err != nil {
			return err
		}

		// Accept either a bare array of rows or the {"questions": [...]}
		// envelope the HTTP endpoints use.
		var rows []ingest.Row
		if err := json.Unmarshal(payload, &rows); err != nil {
			var envelope struct {
				Questions []ingest.Row `json:"questions"`
			}
			if err := json.Unmarshal(payload, &envelope); err != nil {
				return err
			}
			rows = envelope.Questions
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(&models.Module{}, &models.Set{}, &models.Question{}); err != nil {
			return err
		}

		engine := ingest.NewEngine(content.NewStore(db), logg)
		result, err := engine.Process(context.Background(), rows, ingest.Options{
			Replace:   importReplace,
			CreatedBy: models.CreatedByAdmin,
		})
		if err != nil {
			return err
		}

		logg.Info("Import finished",
			zap.Int("modules_created", result.ModulesCreated),
			zap.Int("modules_updated", result.ModulesUpdated),
			zap.Int("sets_created", result.SetsCreated),
			zap.Int("sets_updated", result.SetsUpdated),
			zap.Int("questions_created", result.QuestionsCreated),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to the JSON batch file")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "wipe all existing content before importing")
	_ = importCmd.MarkFlagRequired("file")
	RootCmd.AddCommand(importCmd)
}
