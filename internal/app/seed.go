package app

import (
	"context"
	"fmt"

	"housepoints/internal/db/repository"
	"housepoints/internal/domain"
)

// SeedDemo populates an empty database with demo houses and principals so
// a fresh deployment is explorable. Idempotent — does nothing if any
// principal already exists.
func SeedDemo(ctx context.Context, principals *repository.PrincipalRepo, houses *repository.HouseRepo) error {
	existing, _, err := principals.List(ctx, domain.PageRequest{MaxResults: 1})
	if err != nil {
		return fmt.Errorf("check principals: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	phoenix, err := houses.Create(ctx, &domain.House{Name: "Phoenix", Color: "#e74c3c"})
	if err != nil {
		return fmt.Errorf("create Phoenix: %w", err)
	}
	griffin, err := houses.Create(ctx, &domain.House{Name: "Griffin", Color: "#2980b9"})
	if err != nil {
		return fmt.Errorf("create Griffin: %w", err)
	}

	adminSub := "demo-admin"
	if _, err := principals.Create(ctx, &domain.Principal{
		Name: "demo_admin", Role: domain.RoleAdmin, Active: true, ExternalID: &adminSub,
	}); err != nil {
		return fmt.Errorf("create demo_admin: %w", err)
	}

	coordSub := "demo-coordinator"
	coord, err := principals.Create(ctx, &domain.Principal{
		Name: "demo_coordinator", Role: domain.RoleFaculty, Active: true,
		ExternalID: &coordSub, CoordinatorOfHouseID: &phoenix.ID,
	})
	if err != nil {
		return fmt.Errorf("create demo_coordinator: %w", err)
	}
	if err := houses.SetCoordinator(ctx, phoenix.ID, &coord.ID); err != nil {
		return fmt.Errorf("assign coordinator: %w", err)
	}

	for i, house := range []*domain.House{phoenix, phoenix, griffin} {
		sub := fmt.Sprintf("demo-student-%d", i+1)
		if _, err := principals.Create(ctx, &domain.Principal{
			Name:       fmt.Sprintf("demo_student_%d", i+1),
			Role:       domain.RoleStudent,
			Active:     true,
			ExternalID: &sub,
			HouseID:    &house.ID,
		}); err != nil {
			return fmt.Errorf("create demo student %d: %w", i+1, err)
		}
	}

	return nil
}
