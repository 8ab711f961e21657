package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housepoints/internal/domain"
)

func TestCertificateService_SubmitValidates(t *testing.T) {
	f := newFixture(t)
	house := f.house(t, "Phoenix")
	student := f.student(t, "alice", &house.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, cert.Status)
	assert.Equal(t, student.ID, cert.OwnerID)

	_, err = f.certs.Submit(t.Context(), student, domain.CertificatePayload{})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.NotEmpty(t, validation.Violations)
}

func TestCertificateService_SubmitRequiresActivePrincipal(t *testing.T) {
	f := newFixture(t)
	house := f.house(t, "Phoenix")
	student := f.student(t, "alice", &house.ID)
	require.NoError(t, f.principalRepo.SetActive(t.Context(), student.ID, false))
	student.Active = false

	var authz *domain.AuthorizationError
	_, err := f.certs.Submit(t.Context(), student, validPayload())
	require.ErrorAs(t, err, &authz)

	_, err = f.certs.Submit(t.Context(), nil, validPayload())
	require.ErrorAs(t, err, &authz)
}

func TestCertificateService_ApproveAuthorization(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	griffin := f.house(t, "Griffin")
	student := f.student(t, "alice", &phoenix.ID)
	peer := f.student(t, "bob", &phoenix.ID)
	rightCoordinator := f.coordinator(t, phoenix.ID)
	wrongCoordinator := f.newPrincipal(t, "other-coord", domain.RoleFaculty, nil, &griffin.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)

	var authz *domain.AuthorizationError

	// The owner, a peer, and the wrong house's coordinator are all denied.
	for _, actor := range []*domain.Principal{student, peer, wrongCoordinator} {
		_, err := f.certs.Approve(t.Context(), actor, cert.ID, nil)
		require.ErrorAs(t, err, &authz, actor.Name)
	}

	approved, err := f.certs.Approve(t.Context(), rightCoordinator, cert.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.AwardedPoints)
	// external / intermediate from the default table
	assert.Equal(t, 50, *approved.AwardedPoints)
}

func TestCertificateService_AdminApprovesFacultyOnly(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	admin := f.admin(t)
	student := f.student(t, "alice", &phoenix.ID)
	faculty := f.newPrincipal(t, "prof", domain.RoleFaculty, &phoenix.ID, nil)

	studentCert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)
	facultyCert, err := f.certs.Submit(t.Context(), faculty, validPayload())
	require.NoError(t, err)

	var authz *domain.AuthorizationError
	_, err = f.certs.Approve(t.Context(), admin, studentCert.ID, nil)
	require.ErrorAs(t, err, &authz)

	approved, err := f.certs.Approve(t.Context(), admin, facultyCert.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
}

func TestCertificateService_ApproveOverrideClamped(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)

	var validation *domain.ValidationError
	_, err = f.certs.Approve(t.Context(), coordinator, cert.ID, intptr(101))
	require.ErrorAs(t, err, &validation)
	_, err = f.certs.Approve(t.Context(), coordinator, cert.ID, intptr(-1))
	require.ErrorAs(t, err, &validation)

	approved, err := f.certs.Approve(t.Context(), coordinator, cert.ID, intptr(75))
	require.NoError(t, err)
	assert.Equal(t, 75, *approved.AwardedPoints)
}

func TestCertificateService_ApproveTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)
	_, err = f.certs.Approve(t.Context(), coordinator, cert.ID, nil)
	require.NoError(t, err)

	// An authorized approver acting on a decided certificate gets a state
	// conflict, not a permission denial.
	var invalid *domain.InvalidStateError
	_, err = f.certs.Approve(t.Context(), coordinator, cert.ID, nil)
	require.ErrorAs(t, err, &invalid)
	_, err = f.certs.Reject(t.Context(), coordinator, cert.ID, nil)
	require.ErrorAs(t, err, &invalid)
}

func TestCertificateService_RejectAfterRejectConflicts(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)
	_, err = f.certs.Reject(t.Context(), coordinator, cert.ID, nil)
	require.NoError(t, err)

	var invalid *domain.InvalidStateError
	_, err = f.certs.Reject(t.Context(), coordinator, cert.ID, nil)
	require.ErrorAs(t, err, &invalid)
	_, err = f.certs.Approve(t.Context(), coordinator, cert.ID, nil)
	require.ErrorAs(t, err, &invalid)
}

func TestCertificateService_ConcurrentApproveSingleWinner(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)

	const approvers = 8
	errs := make(chan error, approvers)
	var wg sync.WaitGroup
	for i := 0; i < approvers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.certs.Approve(t.Context(), coordinator, cert.ID, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Exactly one approval wins; every loser observes a state conflict or
	// a ledger collision, never a permission denial or a silent overwrite.
	var wins int
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		var invalid *domain.InvalidStateError
		var dup *domain.DuplicateEntryError
		require.True(t, errors.As(err, &invalid) || errors.As(err, &dup), err)
	}
	assert.Equal(t, 1, wins)

	got, err := f.certs.Get(t.Context(), coordinator, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	require.NotNil(t, got.AwardedPoints)
	assert.Equal(t, 50, *got.AwardedPoints)

	// The ledger holds a single 50-point entry, not one per racer.
	total, err := f.agg.TotalForHouse(t.Context(), phoenix.ID, domain.PointsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, total)
}

func TestCertificateService_ApproveRequiresOwnerHouse(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)
	// Faculty with no house affiliation: there is no ledger bucket for the
	// award, so approval must fail before any state change.
	faculty := f.newPrincipal(t, "prof", domain.RoleFaculty, nil, nil)

	cert, err := f.certs.Submit(t.Context(), faculty, validPayload())
	require.NoError(t, err)

	var validation *domain.ValidationError
	_, err = f.certs.Approve(t.Context(), admin, cert.ID, nil)
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, err.Error(), "no house affiliation")

	got, err := f.certs.Get(t.Context(), faculty, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestCertificateService_RejectWithCommentThenResubmit(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)

	reason := "issuer name does not match the artifact"
	rejected, err := f.certs.Reject(t.Context(), coordinator, cert.ID, &reason)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)

	comments, err := f.certs.ListComments(t.Context(), student, cert.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, reason, comments[0].Body)
	assert.Equal(t, coordinator.ID, comments[0].AuthorID)

	// The owner fixes the payload; the edit resubmits as pending and the
	// rejection rationale stays on the thread.
	payload := validPayload()
	payload.Organization = "Acme Institute Proper"
	resubmitted, err := f.certs.Edit(t.Context(), student, cert.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resubmitted.Status)
	assert.NotNil(t, resubmitted.ResubmittedAt)

	comments, err = f.certs.ListComments(t.Context(), student, cert.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestCertificateService_ApprovedIsImmutable(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)
	admin := f.admin(t)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)
	_, err = f.certs.Approve(t.Context(), coordinator, cert.ID, nil)
	require.NoError(t, err)

	// Immutability wins over capabilities: even the admin, who can edit
	// anything else, gets a state conflict rather than a denial.
	var invalid *domain.InvalidStateError
	_, err = f.certs.Edit(t.Context(), admin, cert.ID, validPayload())
	require.ErrorAs(t, err, &invalid)
	err = f.certs.Delete(t.Context(), admin, cert.ID)
	require.ErrorAs(t, err, &invalid)

	_, err = f.certs.Edit(t.Context(), student, cert.ID, validPayload())
	require.ErrorAs(t, err, &invalid)
	err = f.certs.Delete(t.Context(), student, cert.ID)
	require.ErrorAs(t, err, &invalid)
}

func TestCertificateService_EditAuthorization(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	peer := f.student(t, "bob", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)

	var authz *domain.AuthorizationError
	_, err = f.certs.Edit(t.Context(), peer, cert.ID, validPayload())
	require.ErrorAs(t, err, &authz)
	// Coordinators review; they do not rewrite submissions.
	_, err = f.certs.Edit(t.Context(), coordinator, cert.ID, validPayload())
	require.ErrorAs(t, err, &authz)

	payload := validPayload()
	payload.Name = "Renamed"
	updated, err := f.certs.Edit(t.Context(), student, cert.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestCertificateService_PendingReviewQueues(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	griffin := f.house(t, "Griffin")
	admin := f.admin(t)
	coordinator := f.coordinator(t, phoenix.ID)
	phoenixStudent := f.student(t, "alice", &phoenix.ID)
	griffinStudent := f.student(t, "bob", &griffin.ID)
	faculty := f.newPrincipal(t, "prof", domain.RoleFaculty, &phoenix.ID, nil)

	phoenixCert, err := f.certs.Submit(t.Context(), phoenixStudent, validPayload())
	require.NoError(t, err)
	_, err = f.certs.Submit(t.Context(), griffinStudent, validPayload())
	require.NoError(t, err)
	facultyCert, err := f.certs.Submit(t.Context(), faculty, validPayload())
	require.NoError(t, err)

	// The coordinator's queue holds only their house's student submissions.
	queue, total, err := f.certs.PendingReview(t.Context(), coordinator, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, queue, 1)
	assert.Equal(t, phoenixCert.ID, queue[0].ID)

	// The admin's queue holds faculty submissions.
	queue, _, err = f.certs.PendingReview(t.Context(), admin, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, facultyCert.ID, queue[0].ID)

	// Students have no review queue.
	var authz *domain.AuthorizationError
	_, _, err = f.certs.PendingReview(t.Context(), phoenixStudent, domain.PageRequest{})
	require.ErrorAs(t, err, &authz)
}

func TestCertificateService_ListScoping(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	griffin := f.house(t, "Griffin")
	admin := f.admin(t)
	coordinator := f.coordinator(t, phoenix.ID)
	alice := f.student(t, "alice", &phoenix.ID)
	bob := f.student(t, "bob", &griffin.ID)

	_, err := f.certs.Submit(t.Context(), alice, validPayload())
	require.NoError(t, err)
	_, err = f.certs.Submit(t.Context(), bob, validPayload())
	require.NoError(t, err)

	// Default scope is the actor's own submissions.
	certs, _, err := f.certs.List(t.Context(), alice, domain.CertificateFilter{})
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, alice.ID, certs[0].OwnerID)

	// A student may not read another member's list.
	var authz *domain.AuthorizationError
	_, _, err = f.certs.List(t.Context(), alice, domain.CertificateFilter{OwnerID: &bob.ID})
	require.ErrorAs(t, err, &authz)

	// Coordinators may list their own house, not others.
	certs, _, err = f.certs.List(t.Context(), coordinator, domain.CertificateFilter{HouseID: &phoenix.ID})
	require.NoError(t, err)
	assert.Len(t, certs, 1)
	_, _, err = f.certs.List(t.Context(), coordinator, domain.CertificateFilter{HouseID: &griffin.ID})
	require.ErrorAs(t, err, &authz)

	// Admins see everything.
	certs, _, err = f.certs.List(t.Context(), admin, domain.CertificateFilter{})
	require.NoError(t, err)
	assert.Len(t, certs, 2)
}

func TestCertificateService_CommentRules(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	student := f.student(t, "alice", &phoenix.ID)
	coordinator := f.coordinator(t, phoenix.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)

	comment, err := f.certs.Comment(t.Context(), coordinator, cert.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, coordinator.ID, comment.AuthorID)

	var authz *domain.AuthorizationError
	_, err = f.certs.Comment(t.Context(), student, cert.ID, "thanks")
	require.ErrorAs(t, err, &authz)

	var validation *domain.ValidationError
	_, err = f.certs.Comment(t.Context(), coordinator, cert.ID, "")
	require.ErrorAs(t, err, &validation)
}

func TestCertificateService_ViewScope(t *testing.T) {
	f := newFixture(t)
	phoenix := f.house(t, "Phoenix")
	griffin := f.house(t, "Griffin")
	student := f.student(t, "alice", &phoenix.ID)
	outsider := f.newPrincipal(t, "other-coord", domain.RoleFaculty, nil, &griffin.ID)

	cert, err := f.certs.Submit(t.Context(), student, validPayload())
	require.NoError(t, err)

	var authz *domain.AuthorizationError
	_, err = f.certs.Get(t.Context(), outsider, cert.ID)
	require.ErrorAs(t, err, &authz)
	_, err = f.certs.ListComments(t.Context(), outsider, cert.ID)
	require.ErrorAs(t, err, &authz)

	got, err := f.certs.Get(t.Context(), f.admin(t), cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.ID, got.ID)
}
