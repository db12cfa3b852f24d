package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gramarogya/nondvahi/internal/config"
	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/logging"
)

const defaultConfigFile = "nondvahi.toml"

// app is what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	var configPath string
	a := &app{}

	cmd := &cobra.Command{
		Use:          "nondvahi",
		Short:        "Village health registers and printable Marathi reports",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigFile, "Path to the TOML config file (optional)")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newUserCmd(a))
	cmd.AddCommand(newBackupCmd(a))

	return cmd
}

func (a *app) openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := db.Version()
			if err != nil {
				return err
			}
			cmd.Printf("Database %s is at schema version %d\n", a.cfg.Database.Driver, v)
			return nil
		},
	}
}
