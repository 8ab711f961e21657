package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCapabilities(t *testing.T) {
	houseID := "house-1"
	otherHouse := "house-2"

	admin := &Principal{ID: "admin-1", Role: RoleAdmin, Active: true}
	coordinator := &Principal{ID: "coord-1", Role: RoleFaculty, Active: true, CoordinatorOfHouseID: &houseID}
	student := &Principal{ID: "student-1", Role: RoleStudent, Active: true, HouseID: &houseID}
	stranger := &Principal{ID: "student-2", Role: RoleStudent, Active: true}

	studentCert := func(status CertificateStatus) *Certificate {
		return &Certificate{ID: "cert-1", OwnerID: student.ID, OwnerRole: RoleStudent, Status: status}
	}
	facultyCert := func(status CertificateStatus) *Certificate {
		return &Certificate{ID: "cert-2", OwnerID: "faculty-1", OwnerRole: RoleFaculty, Status: status}
	}

	t.Run("coordinator holds approval authority over their house's students", func(t *testing.T) {
		caps := ResolveCapabilities(coordinator, studentCert(StatusPending), &houseID)
		assert.True(t, caps.CanApprove)
		assert.True(t, caps.CanComment)
		assert.False(t, caps.CanEdit)
	})

	t.Run("coordinator scope does not cross houses", func(t *testing.T) {
		caps := ResolveCapabilities(coordinator, studentCert(StatusPending), &otherHouse)
		assert.False(t, caps.CanApprove)
	})

	t.Run("authority is status-independent", func(t *testing.T) {
		// The lifecycle engine turns an authorized act on a decided
		// certificate into a state conflict; the capability set only
		// answers who may act.
		for _, status := range []CertificateStatus{StatusApproved, StatusRejected} {
			caps := ResolveCapabilities(coordinator, studentCert(status), &houseID)
			assert.True(t, caps.CanApprove, status)
		}
	})

	t.Run("coordinator never approves faculty certificates", func(t *testing.T) {
		caps := ResolveCapabilities(coordinator, facultyCert(StatusPending), &houseID)
		assert.False(t, caps.CanApprove)
	})

	t.Run("admin authority covers faculty certificates only", func(t *testing.T) {
		caps := ResolveCapabilities(admin, facultyCert(StatusPending), nil)
		assert.True(t, caps.CanApprove)

		caps = ResolveCapabilities(admin, studentCert(StatusPending), &houseID)
		assert.False(t, caps.CanApprove)
	})

	t.Run("admin may edit and delete anything", func(t *testing.T) {
		caps := ResolveCapabilities(admin, studentCert(StatusApproved), &houseID)
		assert.True(t, caps.CanEdit)
		assert.True(t, caps.CanDelete)
	})

	t.Run("owner edits and deletes until approval", func(t *testing.T) {
		for _, status := range []CertificateStatus{StatusPending, StatusRejected} {
			caps := ResolveCapabilities(student, studentCert(status), &houseID)
			assert.True(t, caps.CanEdit, status)
			assert.True(t, caps.CanDelete, status)
		}
		caps := ResolveCapabilities(student, studentCert(StatusApproved), &houseID)
		assert.False(t, caps.CanEdit)
		assert.False(t, caps.CanDelete)
	})

	t.Run("owners never comment on their own certificate", func(t *testing.T) {
		caps := ResolveCapabilities(student, studentCert(StatusPending), &houseID)
		assert.False(t, caps.CanComment)

		caps = ResolveCapabilities(stranger, studentCert(StatusPending), &houseID)
		assert.True(t, caps.CanComment)
	})

	t.Run("deactivated principals hold nothing", func(t *testing.T) {
		inactive := &Principal{ID: "coord-1", Role: RoleFaculty, Active: false, CoordinatorOfHouseID: &houseID}
		caps := ResolveCapabilities(inactive, studentCert(StatusPending), &houseID)
		assert.Equal(t, Capabilities{}, caps)
	})

	t.Run("nil actor holds nothing", func(t *testing.T) {
		assert.Equal(t, Capabilities{}, ResolveCapabilities(nil, studentCert(StatusPending), &houseID))
	})
}
