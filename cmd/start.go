package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"flashdeck/core/config"
	"flashdeck/core/database"
	"flashdeck/core/loader"
	"flashdeck/core/logger"
	"flashdeck/core/mail"
	"flashdeck/core/middleware/requestid"
	"flashdeck/core/storage"

	"flashdeck/feature/auth"
	authmodels "flashdeck/feature/auth/models"
	"flashdeck/feature/content"
	contentmodels "flashdeck/feature/content/models"
	"flashdeck/feature/engage"
	engagemodels "flashdeck/feature/engage/models"
	"flashdeck/feature/ingest"
	"flashdeck/feature/quiz"
	quizmodels "flashdeck/feature/quiz/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/minio/minio-go/v7"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "flashdeck/docs/swagger"
)

// @title Flashdeck API
// @version 1.0
// @description Backend API for the Flashdeck flashcard platform.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the flashdeck server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(
			&contentmodels.Module{},
			&contentmodels.Set{},
			&contentmodels.Question{},
			&authmodels.User{},
			&authmodels.VerificationToken{},
			&quizmodels.QuizAttempt{},
			&quizmodels.AttemptAnswer{},
			&quizmodels.Progress{},
			&engagemodels.Rating{},
			&engagemodels.Report{},
			&engagemodels.Comment{},
			&engagemodels.Feedback{},
		); err != nil {
			logg.Fatal("Failed to run migrations", zap.Error(err))
		}

		// 4. Initialize Storage (optional; imports still work without it,
		// they just skip the raw batch archive)
		var store storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage connection failed", zap.Error(err))
		} else {
			ctx := context.Background()
			exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
			if err != nil {
				logg.Warn("Storage unreachable, import archiving disabled", zap.Error(err))
			} else {
				if !exists {
					if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{Region: cfg.Storage.Region}); err != nil {
						logg.Warn("Failed to create archive bucket", zap.Error(err))
					}
				}
				store = client
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		})

		// Middleware Registration
		// 1. Request ID (must be first to trace everything)
		app.Use(requestid.New())

		// 2. CORS
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.Server.Origins(), ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))

		// 3. Request logging
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequestID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 4. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 5. Features
		mailer := mail.New(cfg.Mail, logg)
		contentFeature := content.NewFeature(db, logg)

		mgr := loader.NewManager()
		mgr.Register(contentFeature)
		mgr.Register(ingest.NewFeature(contentFeature.Store(), contentFeature.Catalog(), store, cfg.Storage.Bucket, logg))
		authFeature := auth.NewFeature(db, mailer, cfg.Auth, logg)
		mgr.Register(authFeature)
		mgr.Register(quiz.NewFeature(db, contentFeature.Store(), cfg.Auth, logg))
		mgr.Register(engage.NewFeature(db, authFeature.Store(), cfg.Auth, logg))

		api := app.Group("/api")
		if err := mgr.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Nightly recount reconciles the cached per-set question counts
		// with the actual question rows.
		scheduler := cron.New()
		if _, err := scheduler.AddFunc("0 3 * * *", func() {
			if err := contentFeature.Service().RecountAll(context.Background()); err != nil {
				logg.Error("Nightly recount failed", zap.Error(err))
			}
		}); err != nil {
			logg.Fatal("Failed to schedule recount job", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
