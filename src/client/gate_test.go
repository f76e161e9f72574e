package client

import (
	"path/filepath"
	"scb/src/authz"
	"scb/src/models"
	"scb/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newGateSession(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(&FileStorage{Path: filepath.Join(t.TempDir(), "session.json")})
}

func TestGateSuspendsUntilSessionResolves(t *testing.T) {
	session := newGateSession(t)
	gate := NewGate(session)

	decision := gate.Decide(authz.AreaAdminDashboard)
	assert.Equal(t, DecisionPending, decision.State, "no content and no redirect before the session loads")

	assert.Nil(t, session.Load())
	decision = gate.Decide(authz.AreaAdminDashboard)
	assert.Equal(t, DecisionDeny, decision.State)
}

func TestGateDeniesSignedOutTowardsLogin(t *testing.T) {
	session := newGateSession(t)
	assert.Nil(t, session.Load())
	gate := NewGate(session)

	for _, area := range []authz.Area{
		authz.AreaUserDashboard, authz.AreaMemberDashboard,
		authz.AreaAdminDashboard, authz.AreaPayment,
	} {
		decision := gate.Decide(area)
		assert.Equal(t, DecisionDeny, decision.State)
		assert.Equal(t, DenyUnauthenticated, decision.Reason)
		assert.Equal(t, LoginArea, decision.RedirectTo)
	}
}

func TestGateRedirectsWrongRoleToOwnLanding(t *testing.T) {
	session := newGateSession(t)
	assert.Nil(t, session.Load())
	assert.Nil(t, session.SetSession(models.User{ID: 1, Role: types.ROLE_USER}, "tok"))
	gate := NewGate(session)

	decision := gate.Decide(authz.AreaAdminDashboard)
	assert.Equal(t, DecisionDeny, decision.State)
	assert.Equal(t, DenyForbidden, decision.Reason)
	assert.Equal(t, "/user/dashboard", decision.RedirectTo)

	decision = gate.Decide(authz.AreaMemberDashboard)
	assert.Equal(t, DecisionDeny, decision.State)
	assert.Equal(t, "/user/dashboard", decision.RedirectTo)

	decision = gate.Decide(authz.AreaUserDashboard)
	assert.Equal(t, DecisionAllow, decision.State)
}

func TestGateAllowsByAreaTable(t *testing.T) {
	tests := []struct {
		role    types.Role
		area    authz.Area
		allowed bool
	}{
		{types.ROLE_MEMBER, authz.AreaMemberDashboard, true},
		{types.ROLE_MEMBER, authz.AreaPayment, true},
		{types.ROLE_MEMBER, authz.AreaAdminDashboard, false},
		{types.ROLE_ADMIN, authz.AreaAdminDashboard, true},
		{types.ROLE_ADMIN, authz.AreaUserDashboard, true},
		{types.ROLE_USER, authz.AreaPayment, false},
	}
	for _, tc := range tests {
		session := newGateSession(t)
		assert.Nil(t, session.Load())
		assert.Nil(t, session.SetSession(models.User{ID: 1, Role: tc.role}, "tok"))
		decision := NewGate(session).Decide(tc.area)
		if tc.allowed {
			assert.Equalf(t, DecisionAllow, decision.State, "%s entering %s", tc.role, tc.area)
		} else {
			assert.Equalf(t, DecisionDeny, decision.State, "%s entering %s", tc.role, tc.area)
		}
	}
}

func TestGatePromotionUnlocksMemberArea(t *testing.T) {
	session := newGateSession(t)
	assert.Nil(t, session.Load())
	assert.Nil(t, session.SetSession(models.User{ID: 2, Role: types.ROLE_USER}, "tok"))
	gate := NewGate(session)

	assert.Equal(t, DecisionDeny, gate.Decide(authz.AreaMemberDashboard).State)

	// A profile refresh carrying the server-side promotion flips the answer.
	assert.Nil(t, session.UpdateProfile(models.User{ID: 2, Role: types.ROLE_MEMBER}))
	assert.Equal(t, DecisionAllow, gate.Decide(authz.AreaMemberDashboard).State)
}

func TestLandingArea(t *testing.T) {
	session := newGateSession(t)
	assert.Nil(t, session.Load())
	gate := NewGate(session)

	landing, ok := gate.LandingArea()
	assert.False(t, ok)
	assert.Equal(t, LoginArea, landing)

	assert.Nil(t, session.SetSession(models.User{ID: 1, Role: types.ROLE_ADMIN}, "tok"))
	landing, ok = gate.LandingArea()
	assert.True(t, ok)
	assert.Equal(t, "/admin/dashboard", landing)
}

func TestDashboardSectionsPerRole(t *testing.T) {
	titles := func(role types.Role) []string {
		session := newGateSession(t)
		assert.Nil(t, session.Load())
		assert.Nil(t, session.SetSession(models.User{ID: 1, Role: role}, "tok"))
		out := []string{}
		for _, s := range NewDashboard(session).Sections() {
			out = append(out, s.Title)
		}
		return out
	}

	user := titles(types.ROLE_USER)
	assert.Contains(t, user, "My Profile")
	assert.Contains(t, user, "Pending Bookings")
	assert.NotContains(t, user, "Payment History")
	assert.NotContains(t, user, "Manage Courts")

	member := titles(types.ROLE_MEMBER)
	assert.Contains(t, member, "Approved Bookings")
	assert.Contains(t, member, "Payment History")
	assert.NotContains(t, member, "Booking Approvals")

	admin := titles(types.ROLE_ADMIN)
	assert.Contains(t, admin, "Booking Approvals")
	assert.Contains(t, admin, "Manage Courts")
	assert.Contains(t, admin, "Overview")
}

func TestDashboardSignedOutSeesNothing(t *testing.T) {
	session := newGateSession(t)
	assert.Nil(t, session.Load())
	assert.Nil(t, NewDashboard(session).Sections())
}
