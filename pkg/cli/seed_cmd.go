package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"housepoints/internal/app"
	"housepoints/internal/db/repository"
)

func newSeedCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed demo houses and principals into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			if err := app.SeedDemo(cmd.Context(),
				repository.NewPrincipalRepo(db), repository.NewHouseRepo(db)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "demo data seeded")
			return nil
		},
	}
}
