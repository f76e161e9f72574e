package client

import (
	"scb/src/authz"
)

// Section is a dashboard entry tied to the capability that unlocks it.
type Section struct {
	Title      string
	Path       string
	Capability authz.Capability
}

// sections lists every dashboard entry across all roles. Visibility is
// derived from the authz table, never re-decided per view.
var sections = []Section{
	{Title: "My Profile", Path: "/dashboard/profile", Capability: authz.CapViewOwnBookings},
	{Title: "Pending Bookings", Path: "/dashboard/pending-bookings", Capability: authz.CapViewOwnBookings},
	{Title: "Approved Bookings", Path: "/dashboard/approved-bookings", Capability: authz.CapPayBooking},
	{Title: "Confirmed Bookings", Path: "/dashboard/confirmed-bookings", Capability: authz.CapPayBooking},
	{Title: "Payment History", Path: "/dashboard/payment-history", Capability: authz.CapViewPaymentHistory},
	{Title: "Announcements", Path: "/dashboard/announcements", Capability: authz.CapViewOwnBookings},
	{Title: "Overview", Path: "/dashboard/overview", Capability: authz.CapViewStats},
	{Title: "Booking Approvals", Path: "/dashboard/booking-approvals", Capability: authz.CapApproveBookings},
	{Title: "All Bookings", Path: "/dashboard/all-bookings", Capability: authz.CapViewAllBookings},
	{Title: "Manage Courts", Path: "/dashboard/manage-courts", Capability: authz.CapManageCourts},
	{Title: "Manage Coupons", Path: "/dashboard/manage-coupons", Capability: authz.CapManageCoupons},
	{Title: "Manage Members", Path: "/dashboard/manage-members", Capability: authz.CapManageMembers},
	{Title: "Manage Announcements", Path: "/dashboard/manage-announcements", Capability: authz.CapManageAnnouncements},
}

// Dashboard composes the visible section set for the acting identity.
type Dashboard struct {
	session *SessionStore
}

func NewDashboard(session *SessionStore) *Dashboard {
	return &Dashboard{session: session}
}

// Sections returns the entries the current role can see, in declaration
// order. Signed-out (or still unresolved) sessions see nothing.
func (d *Dashboard) Sections() []Section {
	role, ok := d.session.Role()
	if !ok {
		return nil
	}
	visible := []Section{}
	for _, s := range sections {
		if authz.Can(role, s.Capability) {
			visible = append(visible, s)
		}
	}
	return visible
}
