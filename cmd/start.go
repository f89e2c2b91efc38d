package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rental-manager/core/config"
	"rental-manager/core/database"
	"rental-manager/core/loader"
	"rental-manager/core/logger"
	"rental-manager/core/middleware/auth"
	"rental-manager/core/middleware/rayid"
	"rental-manager/core/storage"
	"rental-manager/core/taskqueue"

	"rental-manager/feature/catalog"
	"rental-manager/feature/inventory"
	"rental-manager/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "rental-manager/docs/swagger"
)

// @title Rental Manager API
// @version 1.0
// @description API for the rental catalog and return inventories.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the rental manager server",
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
		if err := models.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate database schema", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Storage + Archive Queue (Optional)
		// Terminated inventories are archived best-effort; a missing
		// storage backend must not prevent the server from running.
		var archiver *inventory.Archiver
		queue := taskqueue.New(context.Background(), cfg.Server.ArchiveWorkers)
		if store, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed, archiving disabled", zap.Error(err))
		} else {
			archiver = inventory.NewArchiver(store, cfg.Storage.Bucket, queue, logg)
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(catalog.NewFeature(db, logg))
		mgr.Register(inventory.NewFeature(db, logg, archiver))

		// Middleware Registration
		// RayID first so every log line of a request carries its id.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
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

		// Public endpoints: API docs and Prometheus metrics.
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()

		// Drain pending archive uploads before exiting.
		if err := queue.Close(); err != nil {
			logg.Warn("Archive queue drained with errors", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
