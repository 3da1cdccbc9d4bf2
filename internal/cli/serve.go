package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/friendorbit/orbit/internal/api"
	"github.com/friendorbit/orbit/internal/config"
	"github.com/friendorbit/orbit/internal/db"
	"github.com/friendorbit/orbit/internal/logger"
	"github.com/friendorbit/orbit/internal/notify"
	"github.com/friendorbit/orbit/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg config.Config) error {
	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	location := cfg.Location()

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	handler := api.NewHandler(database, log, location)

	app := fiber.New(fiber.Config{
		AppName:               "orbit",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	if cfg.Scheduler.Enabled {
		var dispatcher notify.Dispatcher = notify.NoopDispatcher{}
		if cfg.Telegram.BotToken != "" {
			dispatcher = notify.NewTelegramDispatcher(cfg.Telegram.BotToken)
		} else {
			log.Warn("no telegram bot token configured, notifications disabled")
		}

		repositories := db.NewRepositories(database)
		sweeper := services.NewSweeper(repositories.Users, repositories.People, dispatcher, log, location, services.SweeperConfig{
			PromptHour:    cfg.Scheduler.PromptHour,
			DigestWeekday: cfg.Scheduler.Weekday(),
			DigestHour:    cfg.Scheduler.DigestHour,
			Workers:       cfg.Scheduler.Workers,
			WebAppURL:     cfg.Telegram.WebAppURL,
		})
		sweeper.Start(lifecycleCtx)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("orbit listening",
		"addr", cfg.ListenAddr(),
		"db", cfg.Database.Path,
		"tz", location.String(),
		"scheduler", cfg.Scheduler.Enabled,
	)
	if err := app.Listen(cfg.ListenAddr()); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
