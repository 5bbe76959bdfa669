package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Varun5711/devcamper/internal/config"
	"github.com/Varun5711/devcamper/internal/database"
	"github.com/Varun5711/devcamper/internal/logger"
)

func main() {
	log := logger.New("migrate")

	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

var dsn string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the devcamper database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres DSN (defaults to DB_PRIMARY_DSN)")

	cmd.AddCommand(newStepCmd("up", "Apply all pending migrations", database.MigrateUp))
	cmd.AddCommand(newStepCmd("down", "Roll back the most recent migration", database.MigrateDown))
	cmd.AddCommand(newStepCmd("status", "Show applied and pending migrations", database.MigrationStatus))

	return cmd
}

func newStepCmd(use, short string, step func(ctx context.Context, db *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveDSN()
			if err != nil {
				return err
			}

			db, err := database.OpenSQL(target)
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").With("operation", "open database").Wrap(err)
			}
			defer db.Close()

			if err := step(cmd.Context(), db); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", use).Wrap(err)
			}

			cmd.Printf("migrate %s: done\n", use)
			return nil
		},
	}
}

func resolveDSN() (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return cfg.Database.PrimaryDSN, nil
}
