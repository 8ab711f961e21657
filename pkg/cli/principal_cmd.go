package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"housepoints/internal/db/repository"
	"housepoints/internal/domain"
)

func newPrincipalCmd(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "principal",
		Short: "Manage principals",
	}
	cmd.AddCommand(newPrincipalCreateCmd(dbPath))
	cmd.AddCommand(newPrincipalListCmd(dbPath))
	return cmd
}

func newPrincipalCreateCmd(dbPath *string) *cobra.Command {
	var (
		role       string
		houseID    string
		externalID string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			p := &domain.Principal{
				Name:   args[0],
				Role:   domain.Role(role),
				Active: true,
			}
			if !p.Role.Valid() {
				return fmt.Errorf("invalid role %q: use student, faculty, or admin", role)
			}
			if houseID != "" {
				p.HouseID = &houseID
			}
			if externalID != "" {
				p.ExternalID = &externalID
			}

			created, err := repository.NewPrincipalRepo(db).Create(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created principal %s (%s, %s)\n", created.ID, created.Name, created.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "student", "role: student, faculty, or admin")
	cmd.Flags().StringVar(&houseID, "house", "", "house id for the member")
	cmd.Flags().StringVar(&externalID, "external-id", "", "IdP subject (JWT sub claim)")
	return cmd
}

func newPrincipalListCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List principals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			principals, _, err := repository.NewPrincipalRepo(db).List(cmd.Context(), domain.PageRequest{MaxResults: domain.MaxMaxResults})
			if err != nil {
				return err
			}
			for _, p := range principals {
				status := "active"
				if !p.Active {
					status = "inactive"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Role, status)
			}
			return nil
		},
	}
}
