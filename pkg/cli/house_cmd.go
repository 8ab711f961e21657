package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"housepoints/internal/db/repository"
	"housepoints/internal/domain"
)

func newHouseCmd(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "house",
		Short: "Manage houses",
	}
	cmd.AddCommand(newHouseCreateCmd(dbPath))
	cmd.AddCommand(newHouseListCmd(dbPath))
	cmd.AddCommand(newHouseAssignCoordinatorCmd(dbPath))
	cmd.AddCommand(newHouseAddMemberCmd(dbPath))
	return cmd
}

func newHouseCreateCmd(dbPath *string) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			house, err := repository.NewHouseRepo(db).Create(cmd.Context(), &domain.House{
				Name:  args[0],
				Color: color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created house %s (%s)\n", house.ID, house.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#888888", "display color")
	return cmd
}

func newHouseListCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List houses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			houses, err := repository.NewHouseRepo(db).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, h := range houses {
				coordinator := "-"
				if h.CoordinatorID != nil {
					coordinator = *h.CoordinatorID
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tcoordinator=%s\n", h.ID, h.Name, h.Color, coordinator)
			}
			return nil
		},
	}
}

func newHouseAssignCoordinatorCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "assign-coordinator HOUSE_ID FACULTY_ID",
		Short: "Assign a faculty coordinator to a house",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			houseID, facultyID := args[0], args[1]
			principals := repository.NewPrincipalRepo(db)

			faculty, err := principals.GetByID(cmd.Context(), facultyID)
			if err != nil {
				return err
			}
			if faculty.Role != domain.RoleFaculty {
				return fmt.Errorf("%s is a %s; coordinators must be faculty", faculty.Name, faculty.Role)
			}

			if err := repository.NewHouseRepo(db).SetCoordinator(cmd.Context(), houseID, &facultyID); err != nil {
				return err
			}
			if err := principals.SetCoordinatorOf(cmd.Context(), facultyID, &houseID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now coordinates house %s\n", faculty.Name, houseID)
			return nil
		},
	}
}

func newHouseAddMemberCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add-member HOUSE_ID PRINCIPAL_ID",
		Short: "Add a member to a house",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			houseID, memberID := args[0], args[1]
			if err := repository.NewPrincipalRepo(db).SetHouse(cmd.Context(), memberID, &houseID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to house %s\n", memberID, houseID)
			return nil
		},
	}
}
