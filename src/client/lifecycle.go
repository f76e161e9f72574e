package client

import (
	"context"
	"errors"
	"fmt"
	"scb/src/authz"
	"scb/src/models"
	"scb/src/types"
	"sync"
	"time"
)

// Action is a lifecycle operation a view can offer on a booking.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionPay     Action = "pay"
)

// availableActions compiles, per client-known status, the actions a view may
// offer. Cancelled and confirmed are terminal: nothing is offered, and in
// particular no cancel on a paid booking. Unwinding those takes an admin.
var availableActions = map[types.BookingStatus][]Action{
	types.BOOKING_PENDING:   {ActionApprove, ActionReject, ActionCancel},
	types.BOOKING_APPROVED:  {ActionCancel, ActionPay},
	types.BOOKING_CANCELLED: {},
	types.BOOKING_CONFIRMED: {},
}

// LifecycleController validates booking transitions against the client-known
// status before any request leaves the process, serializes mutations per
// booking id, and applies the invalidation table after each success. The
// server remains authoritative: a conflict answer means the client-known
// status was stale, so the booking resources are dropped to resync.
type LifecycleController struct {
	gw      *Gateway
	cache   *Cache
	session *SessionStore

	mu       sync.Mutex
	inflight map[uint]bool
}

func NewLifecycleController(gw *Gateway, cache *Cache, session *SessionStore) *LifecycleController {
	return &LifecycleController{
		gw:       gw,
		cache:    cache,
		session:  session,
		inflight: map[uint]bool{},
	}
}

// AvailableActions returns the actions a view may offer for a booking in the
// given status, filtered by the acting role's capabilities.
func (lc *LifecycleController) AvailableActions(status types.BookingStatus) []Action {
	role, ok := lc.session.Role()
	if !ok {
		return nil
	}
	actions := []Action{}
	for _, a := range availableActions[status] {
		switch a {
		case ActionApprove, ActionReject:
			if authz.Can(role, authz.CapApproveBookings) {
				actions = append(actions, a)
			}
		case ActionPay:
			if authz.Can(role, authz.CapPayBooking) {
				actions = append(actions, a)
			}
		default:
			actions = append(actions, a)
		}
	}
	return actions
}

type bookingEnvelope struct {
	Message string         `json:"message"`
	Data    models.Booking `json:"data"`
}

type paymentEnvelope struct {
	Message string         `json:"message"`
	Data    models.Payment `json:"data"`
}

// CreateBooking submits a booking request. Validation failures surface
// locally; no request is sent.
func (lc *LifecycleController) CreateBooking(ctx context.Context, courtID uint, slots []string, date time.Time) (*models.Booking, error) {
	if courtID == 0 {
		return nil, validationErr("a court must be selected")
	}
	if date.IsZero() {
		return nil, validationErr("a booking date must be selected")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return nil, validationErr("booking date cannot be in the past")
	}
	if len(slots) == 0 {
		return nil, validationErr("at least one session slot must be selected")
	}
	seen := map[string]bool{}
	for _, s := range slots {
		if types.SlotIndex(s) < 0 {
			return nil, validationErr("unknown time slot %q", s)
		}
		if seen[s] {
			return nil, validationErr("time slot %q selected twice", s)
		}
		seen[s] = true
	}

	body := types.CreateBookingRequestBody{
		CourtID:       courtID,
		SelectedSlots: slots,
		BookingDate:   date.Format("2006-01-02"),
	}
	var res bookingEnvelope
	if err := lc.gw.Post(ctx, "/bookings", &body, &res); err != nil {
		return nil, err
	}
	lc.cache.Apply(MutationCreateBooking)
	return &res.Data, nil
}

// UpdateStatus is the admin approve/reject transition. The action is only
// valid while the client-known status is pending; anything else is refused
// before a request is made.
func (lc *LifecycleController) UpdateStatus(ctx context.Context, bookingID uint, target types.BookingStatus, known types.BookingStatus) (*models.Booking, error) {
	role, ok := lc.session.Role()
	if !ok {
		return nil, &APIError{Kind: ErrUnauthenticated}
	}
	if !authz.Can(role, authz.CapApproveBookings) {
		return nil, &APIError{Kind: ErrForbidden}
	}
	if target != types.BOOKING_APPROVED && target != types.BOOKING_CANCELLED {
		return nil, validationErr("cannot move a booking to %q", target)
	}
	if known != types.BOOKING_PENDING {
		return nil, validationErr("only pending bookings can be approved or rejected")
	}
	release, err := lc.acquire(bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	body := types.UpdateBookingStatusRequestBody{Status: target}
	var res bookingEnvelope
	if err := lc.gw.Put(ctx, fmt.Sprintf("/bookings/admin/status/%d", bookingID), &body, &res); err != nil {
		lc.resyncOnConflict(err)
		return nil, err
	}
	lc.cache.Apply(MutationUpdateBookingStatus)
	return &res.Data, nil
}

// Cancel withdraws a pending or approved booking. Confirmed bookings are not
// cancellable from here.
func (lc *LifecycleController) Cancel(ctx context.Context, bookingID uint, known types.BookingStatus) (*models.Booking, error) {
	if known != types.BOOKING_PENDING && known != types.BOOKING_APPROVED {
		return nil, validationErr("a %s booking cannot be cancelled", known)
	}
	release, err := lc.acquire(bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	var res bookingEnvelope
	if err := lc.gw.Put(ctx, fmt.Sprintf("/bookings/%d/cancel", bookingID), nil, &res); err != nil {
		lc.resyncOnConflict(err)
		return nil, err
	}
	lc.cache.Apply(MutationCancelBooking)
	return &res.Data, nil
}

// ValidateCoupon checks a code's eligibility without consuming it. Checking
// twice never changes the coupon's used count; consumption happens on the
// server inside payment submission.
func (lc *LifecycleController) ValidateCoupon(ctx context.Context, code string) (*types.CouponValidationResult, error) {
	if code == "" {
		return nil, validationErr("a coupon code is required")
	}
	var res struct {
		Data types.CouponValidationResult `json:"data"`
	}
	if err := lc.gw.Get(ctx, "/coupons/validate/"+code, &res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// SubmitPayment settles an approved booking. The coupon, when present, is
// re-validated and consumed server-side in the same transaction that flips
// the booking to confirmed/paid.
func (lc *LifecycleController) SubmitPayment(ctx context.Context, bookingID uint, method, transactionID, couponCode string, known types.BookingStatus) (*models.Payment, error) {
	if method == "" {
		return nil, validationErr("a payment method is required")
	}
	if transactionID == "" {
		return nil, validationErr("a transaction id is required")
	}
	if known != types.BOOKING_APPROVED {
		return nil, validationErr("only approved bookings can be paid")
	}
	release, err := lc.acquire(bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	body := types.SubmitPaymentRequestBody{
		BookingID:     bookingID,
		TransactionID: transactionID,
		PaymentMethod: method,
		CouponCode:    couponCode,
	}
	var res paymentEnvelope
	if err := lc.gw.Post(ctx, "/payments", &body, &res); err != nil {
		lc.resyncOnConflict(err)
		return nil, err
	}
	lc.cache.Apply(MutationSubmitPayment)
	return &res.Data, nil
}

// acquire takes the per-booking mutation guard. A booking with a mutation in
// flight rejects further mutations instead of queueing them; the caller
// retries once the first request resolves and the refreshed status tells
// them whether the action still makes sense.
func (lc *LifecycleController) acquire(bookingID uint) (func(), error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.inflight[bookingID] {
		return nil, ErrMutationInFlight
	}
	lc.inflight[bookingID] = true
	return func() {
		lc.mu.Lock()
		delete(lc.inflight, bookingID)
		lc.mu.Unlock()
	}, nil
}

// resyncOnConflict drops the booking resources when the server refuses a
// transition, so the next read replaces the stale client-known status.
func (lc *LifecycleController) resyncOnConflict(err error) {
	if errors.Is(err, ErrConflict) {
		lc.cache.Invalidate(
			ResourceMyBookings, ResourceApprovedBookings,
			ResourceConfirmedBookings, ResourceAdminBookingRequests,
		)
	}
}
