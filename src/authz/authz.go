// Package authz is the single source of truth for the platform's permission
// model. The server middleware, the client-side route gate, and the dashboard
// composer all consume the same tables; no view re-derives role logic on its
// own.
package authz

import "scb/src/types"

// Capability names a role-gated action or dashboard section.
type Capability string

const (
	CapBrowseCourts        Capability = "courts.browse"
	CapRequestBooking      Capability = "bookings.request"
	CapViewOwnBookings     Capability = "bookings.view-own"
	CapCancelOwnBooking    Capability = "bookings.cancel-own"
	CapPayBooking          Capability = "bookings.pay"
	CapViewPaymentHistory  Capability = "payments.view-own"
	CapApproveBookings     Capability = "bookings.approve"
	CapViewAllBookings     Capability = "bookings.view-all"
	CapManageCourts        Capability = "courts.manage"
	CapManageCoupons       Capability = "coupons.manage"
	CapManageMembers       Capability = "users.manage"
	CapManageAnnouncements Capability = "announcements.manage"
	CapViewStats           Capability = "stats.view"
)

// Area is a protected region of the application, identified by its route
// prefix.
type Area string

const (
	AreaUserDashboard   Area = "/user/dashboard"
	AreaMemberDashboard Area = "/member/dashboard"
	AreaAdminDashboard  Area = "/admin/dashboard"
	AreaPayment         Area = "/payment"
)

var roleCapabilities = map[types.Role][]Capability{
	types.ROLE_USER: {
		CapBrowseCourts, CapRequestBooking, CapViewOwnBookings, CapCancelOwnBooking,
	},
	types.ROLE_MEMBER: {
		CapBrowseCourts, CapRequestBooking, CapViewOwnBookings, CapCancelOwnBooking,
		CapPayBooking, CapViewPaymentHistory,
	},
	types.ROLE_ADMIN: {
		CapBrowseCourts, CapRequestBooking, CapViewOwnBookings, CapCancelOwnBooking,
		CapPayBooking, CapViewPaymentHistory,
		CapApproveBookings, CapViewAllBookings, CapManageCourts, CapManageCoupons,
		CapManageMembers, CapManageAnnouncements, CapViewStats,
	},
}

var areaRoles = map[Area][]types.Role{
	AreaUserDashboard:   {types.ROLE_USER, types.ROLE_MEMBER, types.ROLE_ADMIN},
	AreaMemberDashboard: {types.ROLE_MEMBER, types.ROLE_ADMIN},
	AreaAdminDashboard:  {types.ROLE_ADMIN},
	AreaPayment:         {types.ROLE_MEMBER, types.ROLE_ADMIN},
}

// homeAreas is the fixed role → default landing area mapping, used both for
// post-login redirect and as the safe destination when a logged-in identity
// requests an area its role cannot enter.
var homeAreas = map[types.Role]Area{
	types.ROLE_USER:   AreaUserDashboard,
	types.ROLE_MEMBER: AreaMemberDashboard,
	types.ROLE_ADMIN:  AreaAdminDashboard,
}

// Can reports whether the role carries the capability.
func Can(role types.Role, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// Capabilities returns the role's capability set in declaration order.
func Capabilities(role types.Role) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// AllowedRoles returns the roles permitted to enter the area. Unknown areas
// are closed to everyone.
func AllowedRoles(area Area) []types.Role {
	roles := areaRoles[area]
	out := make([]types.Role, len(roles))
	copy(out, roles)
	return out
}

// RoleAllowed reports whether the role may enter the area.
func RoleAllowed(role types.Role, area Area) bool {
	for _, r := range areaRoles[area] {
		if r == role {
			return true
		}
	}
	return false
}

// HomeArea returns the role's default landing area.
func HomeArea(role types.Role) Area {
	if home, ok := homeAreas[role]; ok {
		return home
	}
	return AreaUserDashboard
}
