package service

import (
	"context"

	"housepoints/internal/domain"
)

// PrincipalService provisions and administers principals. Provisioning
// and grants are admin-gated; resolution is used by the auth boundary.
type PrincipalService struct {
	repo  domain.PrincipalRepository
	audit domain.AuditRepository
}

func NewPrincipalService(repo domain.PrincipalRepository, audit domain.AuditRepository) *PrincipalService {
	return &PrincipalService{repo: repo, audit: audit}
}

// Resolve maps an authenticated token subject to its stored principal.
// Deactivated principals do not resolve.
func (s *PrincipalService) Resolve(ctx context.Context, externalID string) (*domain.Principal, error) {
	p, err := s.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrAuthorization("principal %s is deactivated", p.ID)
	}
	return p, nil
}

// GetByID returns a principal by its application id.
func (s *PrincipalService) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	return s.repo.GetByID(ctx, id)
}

// Create provisions a new principal. Admin only.
func (s *PrincipalService) Create(ctx context.Context, actor *domain.Principal, req *domain.CreatePrincipalRequest) (*domain.Principal, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, &domain.Principal{
		Name:       req.Name,
		Role:       req.Role,
		HouseID:    req.HouseID,
		ExternalID: req.ExternalID,
		Active:     true,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "CREATE_PRINCIPAL", p.ID)
	return p, nil
}

// List returns all principals. Admin only.
func (s *PrincipalService) List(ctx context.Context, actor *domain.Principal, page domain.PageRequest) ([]domain.Principal, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, page)
}

// Deactivate disables a principal. Principals are never deleted, so
// their certificates and ledger entries keep a valid owner.
func (s *PrincipalService) Deactivate(ctx context.Context, actor *domain.Principal, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.record(ctx, actor, "DEACTIVATE_PRINCIPAL", id)
	return nil
}

// GrantPermissions replaces a principal's fine-grained permission flags.
// These flags are orthogonal to certificate approval.
func (s *PrincipalService) GrantPermissions(ctx context.Context, actor *domain.Principal, id string, perms []domain.Permission) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.SetPermissions(ctx, id, perms); err != nil {
		return err
	}
	s.record(ctx, actor, "GRANT_PERMISSIONS", id)
	return nil
}

func (s *PrincipalService) record(ctx context.Context, actor *domain.Principal, action, id string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		EntityType: "principal",
		EntityID:   id,
		Status:     "ALLOWED",
	})
}

func requireAdmin(actor *domain.Principal) error {
	if err := requireActive(actor); err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrAuthorization("admin role required")
	}
	return nil
}
