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

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Apply gravity decay to every tracked relationship once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return runSweep(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(ctx context.Context, cfg config.Config) error {
	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	repositories := db.NewRepositories(database)
	sweeper := services.NewSweeper(repositories.Users, repositories.People, notify.NoopDispatcher{}, log, cfg.Location(), services.SweeperConfig{
		Workers: cfg.Scheduler.Workers,
	})

	report, err := sweeper.RunDecaySweep(ctx, time.Now().In(cfg.Location()))
	if err != nil {
		return fmt.Errorf("decay sweep: %w", err)
	}
	log.Info("decay sweep done",
		"run_id", report.RunID,
		"users", report.Users,
		"scanned", report.Scanned,
		"decayed", report.Decayed,
		"unchanged", report.Unchanged,
		"failed", report.Failed,
	)
	return nil
}
