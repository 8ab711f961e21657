// Package cli implements the housepoints admin CLI. It operates directly
// on the database for bootstrap tasks that must work before any admin
// principal exists, so it bypasses the service authorization layer.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	internaldb "housepoints/internal/db"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "housepoints",
		Short:         "House points admin CLI",
		Long:          "Administrative tooling for the house points service: bootstrap principals and houses, mint development tokens, and seed demo data.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("DB_PATH", "housepoints.sqlite"), "path to the SQLite database")

	rootCmd.AddCommand(newPrincipalCmd(&dbPath))
	rootCmd.AddCommand(newHouseCmd(&dbPath))
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newSeedCmd(&dbPath))

	return rootCmd
}

// openDB opens the write pool and brings the schema up to date.
func openDB(path string) (*sql.DB, error) {
	db, err := internaldb.OpenSQLite(path, "write", 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := internaldb.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
