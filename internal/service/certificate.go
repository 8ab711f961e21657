package service

import (
	"context"

	"housepoints/internal/domain"
)

// CertificateService owns the certificate approval state machine. Every
// operation takes the acting principal explicitly; nothing is read from
// ambient state.
type CertificateService struct {
	certs  domain.CertificateRepository
	caps   *CapabilityResolver
	policy *AwardPolicy
	audit  domain.AuditRepository
}

func NewCertificateService(
	certs domain.CertificateRepository,
	caps *CapabilityResolver,
	policy *AwardPolicy,
	audit domain.AuditRepository,
) *CertificateService {
	return &CertificateService{certs: certs, caps: caps, policy: policy, audit: audit}
}

// Submit validates the payload and creates a certificate in pending state
// owned by the actor.
func (s *CertificateService) Submit(ctx context.Context, actor *domain.Principal, payload domain.CertificatePayload) (*domain.Certificate, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	cert, err := s.certs.Create(ctx, &domain.Certificate{
		OwnerID:        actor.ID,
		OwnerRole:      actor.Role,
		Name:           payload.Name,
		Organization:   payload.Organization,
		Type:           payload.Type,
		Level:          payload.Level,
		IssueDate:      payload.IssueDate,
		Expires:        payload.Expires,
		ExpirationDate: payload.ExpirationDate,
		UploadType:     payload.UploadType,
		ArtifactRef:    payload.ArtifactRef,
		ExternalURL:    payload.ExternalURL,
		Hashes:         payload.Hashes,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "SUBMIT", cert.ID, "ALLOWED", nil)
	return cert, nil
}

// Get returns a certificate to an actor with view rights: the owner, an
// admin, or the coordinator of the owner's house.
func (s *CertificateService) Get(ctx context.Context, actor *domain.Principal, id string) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, owner, err := s.caps.Resolve(ctx, actor, cert)
	if err != nil {
		return nil, err
	}
	if !s.caps.CanView(actor, cert, owner) {
		return nil, domain.ErrAuthorization("not allowed to view certificate %s", id)
	}
	return cert, nil
}

// List returns certificates matching the filter, restricted to what the
// actor may see: admins see everything, coordinators see their own house,
// everyone sees their own submissions.
func (s *CertificateService) List(ctx context.Context, actor *domain.Principal, filter domain.CertificateFilter) ([]domain.Certificate, int64, error) {
	if err := requireActive(actor); err != nil {
		return nil, 0, err
	}
	if actor.Role != domain.RoleAdmin {
		switch {
		case filter.HouseID != nil:
			if !actor.CoordinatesHouse(*filter.HouseID) {
				return nil, 0, domain.ErrAuthorization("not the coordinator of house %s", *filter.HouseID)
			}
		case filter.OwnerID != nil && *filter.OwnerID != actor.ID:
			return nil, 0, domain.ErrAuthorization("not allowed to list another member's certificates")
		case filter.OwnerID == nil:
			id := actor.ID
			filter.OwnerID = &id
		}
	}
	return s.certs.List(ctx, filter)
}

// PendingReview returns the actor's approval queue: for a coordinator the
// pending student certificates of their house, for an admin the pending
// faculty-owned certificates.
func (s *CertificateService) PendingReview(ctx context.Context, actor *domain.Principal, page domain.PageRequest) ([]domain.Certificate, int64, error) {
	if err := requireActive(actor); err != nil {
		return nil, 0, err
	}
	pending := domain.StatusPending
	switch {
	case actor.Role == domain.RoleAdmin:
		faculty := domain.RoleFaculty
		return s.certs.List(ctx, domain.CertificateFilter{
			OwnerRole: &faculty, Status: &pending, Page: page,
		})
	case actor.CoordinatorOfHouseID != nil:
		student := domain.RoleStudent
		return s.certs.List(ctx, domain.CertificateFilter{
			HouseID: actor.CoordinatorOfHouseID, OwnerRole: &student, Status: &pending, Page: page,
		})
	default:
		return nil, 0, domain.ErrAuthorization("no review queue for this principal")
	}
}

// Approve transitions a pending certificate to approved, computes the
// award (override or policy table), and writes the ledger entry in the
// same transaction as the status change. An authorized approver acting on
// a certificate that is no longer pending gets InvalidStateError; the
// repository's status-guarded UPDATE returns the same error to the loser
// of a concurrent race.
func (s *CertificateService) Approve(ctx context.Context, actor *domain.Principal, id string, override *int) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caps, owner, err := s.caps.Resolve(ctx, actor, cert)
	if err != nil {
		return nil, err
	}
	if !caps.CanApprove {
		s.record(ctx, actor, "APPROVE", id, "DENIED", nil)
		return nil, domain.ErrAuthorization("not allowed to approve certificate %s", id)
	}
	if cert.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState("certificate %s is %s", id, cert.Status)
	}
	if owner.HouseID == nil {
		return nil, domain.ErrValidation("certificate owner has no house affiliation")
	}

	points, err := s.policy.ResolveAward(cert.Type, cert.Level, override)
	if err != nil {
		return nil, err
	}

	err = s.certs.Approve(ctx, id, points, &domain.PointEntry{
		CertificateID: cert.ID,
		HouseID:       *owner.HouseID,
		MemberID:      owner.ID,
		Category:      domain.CategoryForCertificate(cert.Type),
		Points:        points,
		Year:          cert.IssueDate.Year,
		Month:         cert.IssueDate.Month,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, "APPROVE", id, "ALLOWED", nil)
	return s.certs.GetByID(ctx, id)
}

// Reject transitions a pending certificate to rejected, optionally
// appending the reviewer's rationale to the comment thread. No ledger
// effect.
func (s *CertificateService) Reject(ctx context.Context, actor *domain.Principal, id string, comment *string) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caps, _, err := s.caps.Resolve(ctx, actor, cert)
	if err != nil {
		return nil, err
	}
	if !caps.CanApprove {
		s.record(ctx, actor, "REJECT", id, "DENIED", nil)
		return nil, domain.ErrAuthorization("not allowed to reject certificate %s", id)
	}
	if cert.Status != domain.StatusPending {
		return nil, domain.ErrInvalidState("certificate %s is %s", id, cert.Status)
	}

	if err := s.certs.Reject(ctx, id); err != nil {
		return nil, err
	}
	if comment != nil && *comment != "" {
		if _, err := s.certs.AddComment(ctx, &domain.Comment{
			CertificateID: id, AuthorID: actor.ID, Body: *comment,
		}); err != nil {
			return nil, err
		}
	}

	s.record(ctx, actor, "REJECT", id, "ALLOWED", comment)
	return s.certs.GetByID(ctx, id)
}

// Edit re-validates the payload and replaces the certificate's fields.
// Editing a rejected certificate is a resubmission: status returns to
// pending while the comment thread, including the rejection rationale,
// is preserved for audit.
func (s *CertificateService) Edit(ctx context.Context, actor *domain.Principal, id string, payload domain.CertificatePayload) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.Status == domain.StatusApproved {
		return nil, domain.ErrInvalidState("certificate %s is approved and immutable", id)
	}
	caps, _, err := s.caps.Resolve(ctx, actor, cert)
	if err != nil {
		return nil, err
	}
	if !caps.CanEdit {
		s.record(ctx, actor, "EDIT", id, "DENIED", nil)
		return nil, domain.ErrAuthorization("not allowed to edit certificate %s", id)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.certs.UpdatePayload(ctx, id, payload, cert.Status)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "EDIT", id, "ALLOWED", nil)
	return updated, nil
}

// Delete removes a pending or rejected certificate. Approved certificates
// and their awarded points are permanent and cannot be revoked through
// deletion.
func (s *CertificateService) Delete(ctx context.Context, actor *domain.Principal, id string) error {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cert.Status == domain.StatusApproved {
		return domain.ErrInvalidState("certificate %s is approved and cannot be deleted", id)
	}
	caps, _, err := s.caps.Resolve(ctx, actor, cert)
	if err != nil {
		return err
	}
	if !caps.CanDelete {
		s.record(ctx, actor, "DELETE", id, "DENIED", nil)
		return domain.ErrAuthorization("not allowed to delete certificate %s", id)
	}

	if err := s.certs.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "DELETE", id, "ALLOWED", nil)
	return nil
}

// Comment appends to the certificate's approval thread. Owners may not
// comment on their own certificate.
func (s *CertificateService) Comment(ctx context.Context, actor *domain.Principal, id string, body string) (*domain.Comment, error) {
	if body == "" {
		return nil, domain.ErrValidation("comment body is required")
	}
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	caps, owner, err := s.caps.Resolve(ctx, actor, cert)
	if err != nil {
		return nil, err
	}
	if !caps.CanComment || !s.caps.CanView(actor, cert, owner) {
		s.record(ctx, actor, "COMMENT", id, "DENIED", nil)
		return nil, domain.ErrAuthorization("not allowed to comment on certificate %s", id)
	}

	comment, err := s.certs.AddComment(ctx, &domain.Comment{
		CertificateID: id, AuthorID: actor.ID, Body: body,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "COMMENT", id, "ALLOWED", nil)
	return comment, nil
}

// ListComments returns the approval thread for an actor with view rights.
func (s *CertificateService) ListComments(ctx context.Context, actor *domain.Principal, id string) ([]domain.Comment, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, owner, err := s.caps.Resolve(ctx, actor, cert)
	if err != nil {
		return nil, err
	}
	if !s.caps.CanView(actor, cert, owner) {
		return nil, domain.ErrAuthorization("not allowed to view certificate %s", id)
	}
	return s.certs.ListComments(ctx, id)
}

func (s *CertificateService) record(ctx context.Context, actor *domain.Principal, action, certID, status string, detail *string) {
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		EntityType: "certificate",
		EntityID:   certID,
		Status:     status,
		Detail:     detail,
	})
}

func requireActive(actor *domain.Principal) error {
	if actor == nil {
		return domain.ErrAuthorization("no authenticated principal")
	}
	if !actor.Active {
		return domain.ErrAuthorization("principal %s is deactivated", actor.ID)
	}
	return nil
}
