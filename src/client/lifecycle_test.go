package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"scb/src/models"
	"scb/src/types"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

type lifecycleFixture struct {
	controller *LifecycleController
	cache      *Cache
	session    *SessionStore
	calls      *int32
}

func newLifecycleFixture(t *testing.T, role types.Role, handler http.HandlerFunc) *lifecycleFixture {
	t.Helper()
	var calls int32
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if handler != nil {
			handler(w, r)
			return
		}
		w.Write([]byte(`{"message":"ok","data":{}}`))
	})
	srv := httptest.NewServer(wrapped)
	t.Cleanup(srv.Close)

	session := NewSessionStore(&FileStorage{Path: filepath.Join(t.TempDir(), "session.json")})
	assert.Nil(t, session.Load())
	if role != "" {
		assert.Nil(t, session.SetSession(models.User{ID: 11, Role: role}, "tok"))
	}
	gw := NewGateway(srv.URL, session)
	gw.RetryDelay = time.Millisecond
	cache := NewCache(time.Minute)
	return &lifecycleFixture{
		controller: NewLifecycleController(gw, cache, session),
		cache:      cache,
		session:    session,
		calls:      &calls,
	}
}

func (f *lifecycleFixture) seed(resources ...Resource) {
	for _, res := range resources {
		_, _ = f.cache.Get(context.Background(), Key{Resource: res}, func(ctx context.Context) (any, error) {
			return string(res), nil
		})
	}
}

func TestAvailableActionsPerStatusAndRole(t *testing.T) {
	tests := []struct {
		role   types.Role
		status types.BookingStatus
		want   []Action
	}{
		{types.ROLE_USER, types.BOOKING_PENDING, []Action{ActionCancel}},
		{types.ROLE_USER, types.BOOKING_APPROVED, []Action{ActionCancel}},
		{types.ROLE_MEMBER, types.BOOKING_APPROVED, []Action{ActionCancel, ActionPay}},
		{types.ROLE_ADMIN, types.BOOKING_PENDING, []Action{ActionApprove, ActionReject, ActionCancel}},
		{types.ROLE_ADMIN, types.BOOKING_APPROVED, []Action{ActionCancel, ActionPay}},
		{types.ROLE_MEMBER, types.BOOKING_CONFIRMED, []Action{}},
		{types.ROLE_ADMIN, types.BOOKING_CONFIRMED, []Action{}},
		{types.ROLE_USER, types.BOOKING_CANCELLED, []Action{}},
	}
	for _, tc := range tests {
		f := newLifecycleFixture(t, tc.role, nil)
		got := f.controller.AvailableActions(tc.status)
		assert.Equalf(t, tc.want, got, "%s booking seen by %s", tc.status, tc.role)
	}
}

func TestAvailableActionsSignedOut(t *testing.T) {
	f := newLifecycleFixture(t, "", nil)
	assert.Nil(t, f.controller.AvailableActions(types.BOOKING_PENDING))
}

func TestCreateBookingValidatesLocally(t *testing.T) {
	f := newLifecycleFixture(t, types.ROLE_USER, nil)
	ctx := context.Background()
	tomorrow := time.Now().Add(24 * time.Hour)
	slot := types.TimeSlots[0]

	_, err := f.controller.CreateBooking(ctx, 0, []string{slot}, tomorrow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.controller.CreateBooking(ctx, 1, nil, tomorrow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.controller.CreateBooking(ctx, 1, []string{"midnight"}, tomorrow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.controller.CreateBooking(ctx, 1, []string{slot, slot}, tomorrow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.controller.CreateBooking(ctx, 1, []string{slot}, time.Now().Add(-48*time.Hour))
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls), "invalid input never reaches the network")
}

func TestCreateBookingSendsRequestAndInvalidates(t *testing.T) {
	var body []byte
	f := newLifecycleFixture(t, types.ROLE_USER, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"message":"Booking request submitted","data":{"id":42,"status":"pending","paymentStatus":"unpaid"}}`))
	})
	f.seed(ResourceMyBookings, ResourceCourts)

	date := time.Now().Add(48 * time.Hour)
	booking, err := f.controller.CreateBooking(context.Background(), 3,
		[]string{"10:00 AM - 11:00 AM", "11:00 AM - 12:00 PM"}, date)
	assert.Nil(t, err)
	assert.Equal(t, uint(42), booking.ID)
	assert.Equal(t, types.BOOKING_PENDING, booking.Status)

	assert.Equal(t, int64(3), gjson.GetBytes(body, "courtId").Int())
	assert.Equal(t, date.Format("2006-01-02"), gjson.GetBytes(body, "bookingDate").String())
	assert.Equal(t, int64(2), gjson.GetBytes(body, "selectedSlots.#").Int())

	assert.Equal(t, 1, f.cache.Len(), "myBookings drops, courts survive")
}

func TestUpdateStatusRequiresAdminCapability(t *testing.T) {
	f := newLifecycleFixture(t, types.ROLE_MEMBER, nil)
	_, err := f.controller.UpdateStatus(context.Background(), 1, types.BOOKING_APPROVED, types.BOOKING_PENDING)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls))
}

func TestUpdateStatusRefusesNonPendingKnownStatus(t *testing.T) {
	f := newLifecycleFixture(t, types.ROLE_ADMIN, nil)
	for _, known := range []types.BookingStatus{types.BOOKING_APPROVED, types.BOOKING_CANCELLED, types.BOOKING_CONFIRMED} {
		_, err := f.controller.UpdateStatus(context.Background(), 1, types.BOOKING_APPROVED, known)
		assert.ErrorIs(t, err, ErrValidation)
	}
	_, err := f.controller.UpdateStatus(context.Background(), 1, types.BOOKING_CONFIRMED, types.BOOKING_PENDING)
	assert.ErrorIs(t, err, ErrValidation, "confirmation only happens through payment")
	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls))
}

func TestCancelRefusesConfirmedBooking(t *testing.T) {
	f := newLifecycleFixture(t, types.ROLE_MEMBER, nil)
	_, err := f.controller.Cancel(context.Background(), 1, types.BOOKING_CONFIRMED)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.controller.Cancel(context.Background(), 1, types.BOOKING_CANCELLED)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls))
}

func TestSubmitPaymentRequiresApprovedKnownStatus(t *testing.T) {
	f := newLifecycleFixture(t, types.ROLE_MEMBER, nil)
	_, err := f.controller.SubmitPayment(context.Background(), 1, "bkash", "TXN1", "", types.BOOKING_PENDING)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(0), atomic.LoadInt32(f.calls))
}

func TestSubmitPaymentHappyPath(t *testing.T) {
	var body []byte
	f := newLifecycleFixture(t, types.ROLE_MEMBER, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"message":"Payment submitted","data":{"id":9,"bookingId":42,"amount":60,"discountAmount":15,"finalAmount":45}}`))
	})
	f.seed(ResourceApprovedBookings, ResourceConfirmedBookings, ResourcePaymentHistory,
		ResourceMyBookings, ResourceUserProfile, ResourceCourts)

	payment, err := f.controller.SubmitPayment(context.Background(), 42, "bkash", "TXN-77", "SPRING25", types.BOOKING_APPROVED)
	assert.Nil(t, err)
	assert.Equal(t, 45.0, payment.FinalAmount)

	assert.Equal(t, int64(42), gjson.GetBytes(body, "bookingId").Int())
	assert.Equal(t, "SPRING25", gjson.GetBytes(body, "couponCode").String())

	assert.Equal(t, 1, f.cache.Len(), "every payment surface drops, courts survive")
}

func TestSecondMutationOnSameBookingIsRejected(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var first int32
	f := newLifecycleFixture(t, types.ROLE_MEMBER, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&first, 1) == 1 {
			close(arrived)
			<-release
		}
		w.Write([]byte(`{"message":"ok","data":{}}`))
	})

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.controller.Cancel(context.Background(), 1, types.BOOKING_APPROVED)
		firstDone <- err
	}()
	<-arrived

	_, err := f.controller.Cancel(context.Background(), 1, types.BOOKING_APPROVED)
	assert.ErrorIs(t, err, ErrMutationInFlight)

	close(release)
	assert.Nil(t, <-firstDone)
	assert.Equal(t, int32(1), atomic.LoadInt32(f.calls), "the duplicate never reached the server")

	// The guard lifts once the first mutation resolves.
	_, err = f.controller.SubmitPayment(context.Background(), 1, "card", "TXN2", "", types.BOOKING_APPROVED)
	assert.Nil(t, err)
}

func TestMutationsOnDifferentBookingsRunConcurrently(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var first int32
	f := newLifecycleFixture(t, types.ROLE_MEMBER, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&first, 1) == 1 {
			close(arrived)
			<-release
		}
		w.Write([]byte(`{"message":"ok","data":{}}`))
	})

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.controller.Cancel(context.Background(), 1, types.BOOKING_PENDING)
		firstDone <- err
	}()
	<-arrived

	_, err := f.controller.Cancel(context.Background(), 2, types.BOOKING_PENDING)
	assert.Nil(t, err, "booking 2 is not blocked by booking 1")

	close(release)
	assert.Nil(t, <-firstDone)
}

func TestConflictResyncsBookingResources(t *testing.T) {
	f := newLifecycleFixture(t, types.ROLE_MEMBER, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"booking status does not permit this operation"}`))
	})
	f.seed(ResourceMyBookings, ResourceApprovedBookings, ResourceConfirmedBookings,
		ResourceAdminBookingRequests, ResourceCourts)

	_, err := f.controller.Cancel(context.Background(), 1, types.BOOKING_APPROVED)
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, 1, f.cache.Len(), "stale booking views drop so the next read resyncs")
}

func TestValidateCouponIsReadOnly(t *testing.T) {
	var method string
	f := newLifecycleFixture(t, types.ROLE_MEMBER, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Write([]byte(`{"message":"Coupon is valid","data":{"code":"SPRING25","discountPercentage":25}}`))
	})

	result, err := f.controller.ValidateCoupon(context.Background(), "SPRING25")
	assert.Nil(t, err)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, 25.0, result.DiscountPercentage)

	_, err = f.controller.ValidateCoupon(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}
