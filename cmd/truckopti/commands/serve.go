package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/prakashgarg91/truckopti/internal/api"
	"github.com/prakashgarg91/truckopti/internal/applog"
	"github.com/prakashgarg91/truckopti/internal/cache"
	"github.com/prakashgarg91/truckopti/internal/cost"
	"github.com/prakashgarg91/truckopti/internal/pool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server exposing Interfaces A and B",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := applog.New(cfg.LogLevel, cfg.LogJSON)

	app := fiber.New(fiber.Config{
		AppName:      "truckopti",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(api.RequestSizeLimiter(1 * 1024 * 1024))

	server := &api.Server{
		Cost:  cost.NewModel(),
		Cache: cache.New(cfg.CacheCapacity, cfg.CacheTTL),
		Pool:  pool.New(cfg.Workers, cfg.QueueDepth),
		Log:   log,
	}
	api.SetupRoutes(app, server)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("shutting down gracefully")
		_ = app.Shutdown()
	}()

	log.Info("truckopti starting", "addr", cfg.HTTPAddr, "workers", cfg.Workers, "queue_depth", cfg.QueueDepth)
	return app.Listen(cfg.HTTPAddr)
}
