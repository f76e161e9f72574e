package client

// Resource identifies a cached server resource. Parameterized resources
// (paginated lists) fan out into one cache entry per parameter set but share
// the resource name, so invalidating the name drops every page.
type Resource string

const (
	ResourceUserProfile            Resource = "userProfile"
	ResourceMyBookings             Resource = "myBookings"
	ResourceApprovedBookings       Resource = "approvedBookings"
	ResourceConfirmedBookings      Resource = "confirmedBookings"
	ResourcePaymentHistory         Resource = "paymentHistory"
	ResourceCourts                 Resource = "courts"
	ResourceCoupons                Resource = "coupons"
	ResourceAnnouncements          Resource = "announcements"
	ResourceAdminBookingRequests   Resource = "adminBookingRequests"
	ResourceAdminConfirmedBookings Resource = "adminConfirmedBookings"
	ResourceAllUsers               Resource = "allUsers"
	ResourceAdminStats             Resource = "adminDashboardStats"
)

// Mutation names a state-changing operation for the invalidation table.
type Mutation string

const (
	MutationCreateBooking       Mutation = "createBooking"
	MutationUpdateBookingStatus Mutation = "updateBookingStatus"
	MutationCancelBooking       Mutation = "cancelBooking"
	MutationSubmitPayment       Mutation = "submitPayment"
	MutationAddCourt            Mutation = "addCourt"
	MutationUpdateCourt         Mutation = "updateCourt"
	MutationDeleteCourt         Mutation = "deleteCourt"
	MutationSaveCoupon          Mutation = "saveCoupon"
	MutationDeleteCoupon        Mutation = "deleteCoupon"
	MutationSaveAnnouncement    Mutation = "saveAnnouncement"
	MutationDeleteAnnouncement  Mutation = "deleteAnnouncement"
	MutationDeleteUser          Mutation = "deleteUser"
	MutationUpdateProfile       Mutation = "updateProfile"
)

// Invalidations is the binding contract between mutations and the cache:
// each mutation drops exactly these resources, no more and no fewer. Stale
// dashboards and redundant refetching both trace back to edits of this
// table, so it lives in one place and is tested in isolation.
//
// Approving a booking touches the owner's profile because a first approval
// promotes the owner to member; so does payment, whose receipt shows on the
// profile's activity.
var Invalidations = map[Mutation][]Resource{
	MutationCreateBooking: {ResourceMyBookings},
	MutationUpdateBookingStatus: {
		ResourceAdminBookingRequests, ResourceMyBookings,
		ResourceApprovedBookings, ResourceConfirmedBookings, ResourceUserProfile,
	},
	MutationCancelBooking: {
		ResourceMyBookings, ResourceApprovedBookings, ResourceConfirmedBookings,
	},
	MutationSubmitPayment: {
		ResourceApprovedBookings, ResourceConfirmedBookings,
		ResourceAdminConfirmedBookings, ResourcePaymentHistory,
		ResourceMyBookings, ResourceUserProfile,
	},
	MutationAddCourt:           {ResourceCourts, ResourceAdminStats},
	MutationUpdateCourt:        {ResourceCourts},
	MutationDeleteCourt:        {ResourceCourts, ResourceAdminStats},
	MutationSaveCoupon:         {ResourceCoupons},
	MutationDeleteCoupon:       {ResourceCoupons},
	MutationSaveAnnouncement:   {ResourceAnnouncements},
	MutationDeleteAnnouncement: {ResourceAnnouncements},
	MutationDeleteUser:         {ResourceAllUsers, ResourceAdminStats},
	MutationUpdateProfile:      {ResourceUserProfile},
}
