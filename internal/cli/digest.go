package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/friendorbit/orbit/internal/config"
	"github.com/friendorbit/orbit/internal/db"
	"github.com/friendorbit/orbit/internal/logger"
	"github.com/friendorbit/orbit/internal/notify"
	"github.com/friendorbit/orbit/internal/services"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send the weekly drift digest once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return runDigest(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

func runDigest(ctx context.Context, cfg config.Config) error {
	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	var dispatcher notify.Dispatcher = notify.NoopDispatcher{}
	if cfg.Telegram.BotToken != "" {
		dispatcher = notify.NewTelegramDispatcher(cfg.Telegram.BotToken)
	}

	repositories := db.NewRepositories(database)
	sweeper := services.NewSweeper(repositories.Users, repositories.People, dispatcher, log, cfg.Location(), services.SweeperConfig{
		Workers: cfg.Scheduler.Workers,
	})

	newlyOuter, err := sweeper.RunDriftDigest(ctx, time.Now().In(cfg.Location()))
	if err != nil {
		return fmt.Errorf("drift digest: %w", err)
	}

	total := 0
	for _, people := range newlyOuter {
		total += len(people)
	}
	log.Info("drift digest done", "users_notified", len(newlyOuter), "people_drifting", total)
	return nil
}
