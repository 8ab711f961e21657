package service

import (
	"context"

	"housepoints/internal/domain"
)

// CapabilityResolver resolves the per-actor capability set for a
// certificate. It looks up the owner to learn the owner's house
// affiliation, which scopes coordinator approval.
type CapabilityResolver struct {
	principals domain.PrincipalRepository
}

func NewCapabilityResolver(principals domain.PrincipalRepository) *CapabilityResolver {
	return &CapabilityResolver{principals: principals}
}

// Resolve evaluates the authorization rules for actor against cert and
// also returns the owner record (callers need the owner's house to write
// ledger entries).
func (r *CapabilityResolver) Resolve(ctx context.Context, actor *domain.Principal, cert *domain.Certificate) (domain.Capabilities, *domain.Principal, error) {
	owner, err := r.principals.GetByID(ctx, cert.OwnerID)
	if err != nil {
		return domain.Capabilities{}, nil, err
	}
	return domain.ResolveCapabilities(actor, cert, owner.HouseID), owner, nil
}

// CanView reports whether the actor may read the certificate: the owner,
// an admin, or the faculty coordinator of the owner's house.
func (r *CapabilityResolver) CanView(actor *domain.Principal, cert *domain.Certificate, owner *domain.Principal) bool {
	if actor == nil || !actor.Active {
		return false
	}
	if actor.ID == cert.OwnerID || actor.Role == domain.RoleAdmin {
		return true
	}
	return owner.HouseID != nil && actor.CoordinatesHouse(*owner.HouseID)
}
