package cmd

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"flashdeck/core/config"
	"flashdeck/core/database"
	"flashdeck/core/logger"
	"flashdeck/core/storage"
	"flashdeck/feature/content"
	"flashdeck/feature/ingest"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOut string

// exportCmd renders the full question bank as the re-importable CSV.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all questions to a CSV file",
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

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		data, err := ingest.BuildCSV(context.Background(), content.NewStore(db))
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return err
		}

		// Keep a copy next to the archived import batches when storage is up.
		if client, err := storage.NewClient(cfg.Storage); err == nil {
			ctx := context.Background()
			key := "exports/" + time.Now().UTC().Format("20060102T150405") + "-" + filepath.Base(exportOut)
			if _, err := client.PutObject(ctx, cfg.Storage.Bucket, key,
				bytes.NewReader(data), int64(len(data)),
				minio.PutObjectOptions{ContentType: "text/csv"},
			); err != nil {
				logg.Warn("Failed to store export copy", zap.String("key", key), zap.Error(err))
			}
		}

		logg.Info("Export finished", zap.String("file", exportOut), zap.Int("bytes", len(data)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "flashdeck_export.csv", "output CSV path")
	RootCmd.AddCommand(exportCmd)
}
