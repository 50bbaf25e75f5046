package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"daftar/internal/backend"
	"daftar/internal/storage"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations to the configured SQL backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dialect, dsn, err := migrationTarget()
		if err != nil {
			return err
		}
		if err := storage.RunMigrations(dialect, dsn); err != nil {
			return err
		}
		logger.Info("Migrations applied", "dialect", string(dialect))
		return nil
	},
}

func migrationTarget() (storage.Dialect, string, error) {
	switch backend.BackendType(appConfig.DataBackend) {
	case backend.SQLiteBackend:
		if err := os.MkdirAll(filepath.Dir(appConfig.SQLiteDBPath), 0755); err != nil {
			return "", "", fmt.Errorf("create db directory: %w", err)
		}
		return storage.DialectSQLite, appConfig.SQLiteDBPath, nil
	case backend.PostgresBackend:
		return storage.DialectPostgres, appConfig.PostgresDSN, nil
	default:
		return "", "", fmt.Errorf("migrate needs a sqlite or postgres backend, got %q", appConfig.DataBackend)
	}
}
