package client

import (
	"scb/src/authz"
)

type DecisionState int

const (
	// DecisionPending means identity resolution has not finished (the
	// persisted session is still loading). The area renders a neutral
	// authenticating state; neither content nor a redirect may be shown.
	DecisionPending DecisionState = iota
	DecisionAllow
	DecisionDeny
)

type DenyReason string

const (
	DenyUnauthenticated DenyReason = "must authenticate"
	DenyForbidden       DenyReason = "forbidden"
)

// LoginArea is where unauthenticated visitors are sent.
const LoginArea = "/login"

type Decision struct {
	State      DecisionState
	Reason     DenyReason
	RedirectTo string
}

// Gate makes the allow/deny decision for protected areas from the session
// store's identity and the authz area table. The same check runs at every
// protected boundary, nested ones included: an admin-only panel inside a
// shared dashboard shell re-evaluates, it does not inherit the shell's
// answer.
type Gate struct {
	session *SessionStore
}

func NewGate(session *SessionStore) *Gate {
	return &Gate{session: session}
}

// Decide resolves access to an area. Unresolved sessions suspend the
// decision; a missing identity denies towards sign-in; a wrong role denies
// towards the role's own landing area, so no admin content ever renders for
// a user, not even transiently.
func (g *Gate) Decide(area authz.Area) Decision {
	if !g.session.Resolved() {
		return Decision{State: DecisionPending}
	}
	user := g.session.Current()
	if user == nil {
		return Decision{
			State:      DecisionDeny,
			Reason:     DenyUnauthenticated,
			RedirectTo: LoginArea,
		}
	}
	if !authz.RoleAllowed(user.Role, area) {
		return Decision{
			State:      DecisionDeny,
			Reason:     DenyForbidden,
			RedirectTo: string(authz.HomeArea(user.Role)),
		}
	}
	return Decision{State: DecisionAllow}
}

// LandingArea is the post-authentication redirect target for the current
// identity.
func (g *Gate) LandingArea() (string, bool) {
	user := g.session.Current()
	if user == nil {
		return LoginArea, false
	}
	return string(authz.HomeArea(user.Role)), true
}
