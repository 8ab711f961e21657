package service

import (
	"context"

	"housepoints/internal/domain"
)

// HouseService administers houses, coordinator assignments, and
// membership. It enforces the affiliation invariants: a student belongs
// to at most one house and a faculty member coordinates at most one.
type HouseService struct {
	houses     domain.HouseRepository
	principals domain.PrincipalRepository
	audit      domain.AuditRepository
}

func NewHouseService(houses domain.HouseRepository, principals domain.PrincipalRepository, audit domain.AuditRepository) *HouseService {
	return &HouseService{houses: houses, principals: principals, audit: audit}
}

// Create creates a house. Admin only.
func (s *HouseService) Create(ctx context.Context, actor *domain.Principal, req *domain.CreateHouseRequest) (*domain.House, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	h, err := s.houses.Create(ctx, &domain.House{Name: req.Name, Color: req.Color})
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "CREATE_HOUSE", h.ID)
	return h, nil
}

// GetByID returns a house.
func (s *HouseService) GetByID(ctx context.Context, id string) (*domain.House, error) {
	return s.houses.GetByID(ctx, id)
}

// List returns all houses; any authenticated principal may browse them.
func (s *HouseService) List(ctx context.Context, actor *domain.Principal) ([]domain.House, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	return s.houses.List(ctx)
}

// AssignCoordinator makes a faculty member the coordinator of a house,
// replacing any previous coordinator. Admin only.
func (s *HouseService) AssignCoordinator(ctx context.Context, actor *domain.Principal, houseID, facultyID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	house, err := s.houses.GetByID(ctx, houseID)
	if err != nil {
		return err
	}
	faculty, err := s.principals.GetByID(ctx, facultyID)
	if err != nil {
		return err
	}
	if faculty.Role != domain.RoleFaculty {
		return domain.ErrValidation("coordinator must be a faculty member")
	}
	if faculty.CoordinatorOfHouseID != nil && *faculty.CoordinatorOfHouseID != houseID {
		return domain.ErrValidation("faculty member already coordinates another house")
	}

	// Release the outgoing coordinator before the unique index would
	// collide on the incoming one.
	if house.CoordinatorID != nil && *house.CoordinatorID != facultyID {
		if err := s.principals.SetCoordinatorOf(ctx, *house.CoordinatorID, nil); err != nil {
			return err
		}
	}
	if err := s.principals.SetCoordinatorOf(ctx, facultyID, &houseID); err != nil {
		return err
	}
	if err := s.houses.SetCoordinator(ctx, houseID, &facultyID); err != nil {
		return err
	}
	s.record(ctx, actor, "ASSIGN_COORDINATOR", houseID)
	return nil
}

// AddMember affiliates a principal with a house. Admins and the house's
// own coordinator may add members; a member of another house must be
// removed there first.
func (s *HouseService) AddMember(ctx context.Context, actor *domain.Principal, houseID, memberID string) error {
	if err := s.requireHouseAdmin(actor, houseID); err != nil {
		return err
	}
	if _, err := s.houses.GetByID(ctx, houseID); err != nil {
		return err
	}
	member, err := s.principals.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member.HouseID != nil && *member.HouseID != houseID {
		return domain.ErrValidation("member already belongs to another house")
	}
	if err := s.principals.SetHouse(ctx, memberID, &houseID); err != nil {
		return err
	}
	s.record(ctx, actor, "ADD_MEMBER", houseID)
	return nil
}

// RemoveMember clears a principal's house affiliation.
func (s *HouseService) RemoveMember(ctx context.Context, actor *domain.Principal, houseID, memberID string) error {
	if err := s.requireHouseAdmin(actor, houseID); err != nil {
		return err
	}
	member, err := s.principals.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member.HouseID == nil || *member.HouseID != houseID {
		return domain.ErrValidation("member does not belong to this house")
	}
	if err := s.principals.SetHouse(ctx, memberID, nil); err != nil {
		return err
	}
	s.record(ctx, actor, "REMOVE_MEMBER", houseID)
	return nil
}

// Members returns the principals affiliated with a house.
func (s *HouseService) Members(ctx context.Context, actor *domain.Principal, houseID string) ([]domain.Principal, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if _, err := s.houses.GetByID(ctx, houseID); err != nil {
		return nil, err
	}
	return s.principals.ListByHouse(ctx, houseID)
}

func (s *HouseService) requireHouseAdmin(actor *domain.Principal, houseID string) error {
	if err := requireActive(actor); err != nil {
		return err
	}
	if actor.Role == domain.RoleAdmin || actor.CoordinatesHouse(houseID) {
		return nil
	}
	return domain.ErrAuthorization("admin or house coordinator required")
}

func (s *HouseService) record(ctx context.Context, actor *domain.Principal, action, id string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		EntityType: "house",
		EntityID:   id,
		Status:     "ALLOWED",
	})
}
