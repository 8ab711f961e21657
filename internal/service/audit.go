package service

import (
	"context"

	"housepoints/internal/domain"
)

// AuditService exposes the admin audit trail.
type AuditService struct {
	repo domain.AuditRepository
}

func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns audit entries matching the filter. Admin only.
func (s *AuditService) List(ctx context.Context, actor *domain.Principal, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}
