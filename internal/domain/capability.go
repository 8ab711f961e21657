package domain

// Capabilities is the per-actor, per-certificate capability set produced
// by the capability resolver and consumed by the lifecycle engine.
type Capabilities struct {
	CanApprove bool
	CanEdit    bool
	CanDelete  bool
	CanComment bool
}

// ResolveCapabilities evaluates the authorization rule set for an actor
// against a certificate. Rules are evaluated in precedence order; the
// owner's house affiliation is passed separately because the certificate
// record does not embed its owner.
//
//  1. Admins hold approval authority over faculty-owned certificates and
//     may edit or delete any certificate.
//  2. A faculty coordinator holds approval authority over student
//     certificates within their own house.
//  3. The owner edits and deletes while the certificate is not approved.
//  4. Anyone but the owner comments; owners never comment on their own
//     certificate.
//
// The capability set answers only who may act, never whether the current
// status permits the act: the lifecycle engine checks status separately so
// an approver acting on an already-decided certificate gets a state
// conflict, not a permission denial. Deactivated principals hold no
// capabilities at all.
func ResolveCapabilities(actor *Principal, cert *Certificate, ownerHouseID *string) Capabilities {
	if actor == nil || !actor.Active {
		return Capabilities{}
	}

	caps := Capabilities{}

	if actor.Role == RoleAdmin {
		caps.CanApprove = cert.OwnerRole == RoleFaculty
		caps.CanEdit = true
		caps.CanDelete = true
	}

	if cert.OwnerRole == RoleStudent &&
		ownerHouseID != nil && actor.CoordinatesHouse(*ownerHouseID) {
		caps.CanApprove = true
	}

	if actor.ID == cert.OwnerID && cert.Status != StatusApproved {
		caps.CanEdit = true
		caps.CanDelete = true
	}

	caps.CanComment = actor.ID != cert.OwnerID

	return caps
}
