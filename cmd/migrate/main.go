package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"spendwise/internal/config"
	"spendwise/internal/database"
	"spendwise/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the Spendwise database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(upCmd(), downCmd(), versionCmd(), seedCmd())
	return root
}

// openManager loads configuration and connects to the configured database.
func openManager() (*database.Manager, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	m, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return m, cfg, nil
}

func closeManager(m *database.Manager) {
	if err := m.Close(); err != nil {
		logger.Get().Warnf("database close error: %v", err)
	}
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, _, err := openManager()
			if err != nil {
				return err
			}
			defer closeManager(m)

			if err := m.RunMigrations(); err != nil {
				return err
			}
			logger.Get().Info("Migrations applied successfully")
			return nil
		},
	}
}

func downCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [N]",
		Short: "Roll back the last N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}

			m, _, err := openManager()
			if err != nil {
				return err
			}
			defer closeManager(m)

			if err := m.RollbackMigrations(steps); err != nil {
				return err
			}
			logger.Get().Infof("Rolled back %d migration(s)", steps)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, _, err := openManager()
			if err != nil {
				return err
			}
			defer closeManager(m)

			version, dirty, err := m.MigrationVersion()
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories and the admin user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, cfg, err := openManager()
			if err != nil {
				return err
			}
			defer closeManager(m)

			err = database.Seed(m.DB(), database.SeedAdmin{
				Username: cfg.SeedAdminUsername,
				Password: cfg.SeedAdminPassword,
				Email:    cfg.SeedAdminEmail,
			})
			if err != nil {
				return err
			}
			logger.Get().Info("Seed data inserted")
			return nil
		},
	}
}
