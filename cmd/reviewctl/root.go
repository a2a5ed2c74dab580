package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"code-review-pipeline/config"
	"code-review-pipeline/internal/store"
	"code-review-pipeline/pkg/log"
)

// env carries what every subcommand needs once the config is loaded.
type env struct {
	configPath string
	cfg        *config.Config
	l          log.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Maintenance tasks for the code review pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFrom(e.configPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.l = log.Init(log.ZapConfig{
				Level:    cfg.Logger.Level,
				Mode:     cfg.Logger.Mode,
				Encoding: cfg.Logger.Encoding,
			})
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "Config file (default ./config/config.yaml)")

	root.AddCommand(
		newMigrateCmd(e),
		newRulesCmd(e),
		newJobsCmd(e),
		newSweepCmd(e),
		newMockCmd(e),
		newPromptCmd(e),
		newProbeCmd(e),
	)
	return root
}

// openDB opens the configured database and applies pending migrations.
func (e *env) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := store.Open(e.cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
