package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Role string

const (
	ROLE_USER   Role = "user"
	ROLE_MEMBER Role = "member"
	ROLE_ADMIN  Role = "admin"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_APPROVED  BookingStatus = "approved"
	BOOKING_CANCELLED BookingStatus = "cancelled"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
)

type PaymentStatus string

const (
	PAYMENT_UNPAID PaymentStatus = "unpaid"
	PAYMENT_PAID   PaymentStatus = "paid"
)

type CourtType string

const (
	COURT_INDOOR  CourtType = "indoor"
	COURT_OUTDOOR CourtType = "outdoor"
	COURT_CLAY    CourtType = "clay"
	COURT_GRASS   CourtType = "grass"
	COURT_SYNTH   CourtType = "synthetic"
)

// TimeSlots is the full bookable day for every court: 12 fixed one-hour
// sessions. Slot labels are stored verbatim on bookings, so the order here
// is also the canonical sort order.
var TimeSlots = []string{
	"09:00 AM - 10:00 AM", "10:00 AM - 11:00 AM", "11:00 AM - 12:00 PM",
	"12:00 PM - 01:00 PM", "01:00 PM - 02:00 PM", "02:00 PM - 03:00 PM",
	"03:00 PM - 04:00 PM", "04:00 PM - 05:00 PM", "05:00 PM - 06:00 PM",
	"06:00 PM - 07:00 PM", "07:00 PM - 08:00 PM", "08:00 PM - 09:00 PM",
}

// SlotIndex returns the position of a slot label in the day schedule, or -1
// for labels that are not part of it.
func SlotIndex(label string) int {
	for i, s := range TimeSlots {
		if s == label {
			return i
		}
	}
	return -1
}

// SlotList is stored as a jsonb column.
type SlotList []string

func (a SlotList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *SlotList) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, &a)
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type CreateBookingRequestBody struct {
	CourtID       uint     `json:"courtId" binding:"required"`
	SelectedSlots []string `json:"selectedSlots" binding:"required,min=1,dive,timeslot"`
	BookingDate   string   `json:"bookingDate" binding:"required,bookabledate" time_format:"2006-01-02"`
}

type UpdateBookingStatusRequestBody struct {
	Status BookingStatus `json:"status" binding:"required,oneof=approved cancelled"`
}

type SubmitPaymentRequestBody struct {
	BookingID     uint   `json:"bookingId" binding:"required"`
	TransactionID string `json:"transactionId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=bkash nagad rocket card bank"`
	CouponCode    string `json:"couponCode,omitempty"`
}

type CreateCourtRequestBody struct {
	Name            string    `json:"name" binding:"required"`
	Type            CourtType `json:"type" binding:"required,oneof=indoor outdoor clay grass synthetic"`
	PricePerSession float64   `json:"pricePerSession" binding:"required,gt=0"`
	Capacity        uint      `json:"capacity" binding:"required,gt=0"`
	Description     string    `json:"description,omitempty"`
	Image           string    `json:"image,omitempty"`
}

type UpdateCourtRequestBody struct {
	Name            string    `json:"name,omitempty"`
	Type            CourtType `json:"type,omitempty" binding:"omitempty,oneof=indoor outdoor clay grass synthetic"`
	PricePerSession float64   `json:"pricePerSession,omitempty" binding:"omitempty,gt=0"`
	Capacity        uint      `json:"capacity,omitempty"`
	Description     string    `json:"description,omitempty"`
	Image           string    `json:"image,omitempty"`
}

type CreateCouponRequestBody struct {
	Code               string  `json:"code" binding:"required"`
	DiscountPercentage float64 `json:"discountPercentage" binding:"required,gt=0,lte=100"`
	ExpirationDate     string  `json:"expirationDate" binding:"required"`
	IsActive           *bool   `json:"isActive,omitempty"`
	UsageLimit         *uint   `json:"usageLimit,omitempty"`
}

type UpdateCouponRequestBody struct {
	Code               string  `json:"code,omitempty"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty" binding:"omitempty,gt=0,lte=100"`
	ExpirationDate     string  `json:"expirationDate,omitempty"`
	IsActive           *bool   `json:"isActive,omitempty"`
	UsageLimit         *uint   `json:"usageLimit,omitempty"`
}

type CreateAnnouncementRequestBody struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type UpdateAnnouncementRequestBody struct {
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type UpdateProfileRequestBody struct {
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CouponCodeParams struct {
	Code string `uri:"code" binding:"required"`
}

type PaginationQuery struct {
	Page  int `form:"page,default=1" binding:"omitempty,gte=1"`
	Limit int `form:"limit,default=6" binding:"omitempty,gte=1,lte=50"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type AdminStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalMembers      int64   `json:"totalMembers"`
	TotalCourts       int64   `json:"totalCourts"`
	PendingBookings   int64   `json:"pendingBookings"`
	ApprovedBookings  int64   `json:"approvedBookings"`
	ConfirmedBookings int64   `json:"confirmedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

type CouponValidationResult struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

type BookingEvent struct {
	EventID    string        `json:"event_id"`
	Type       string        `json:"type"`
	BookingID  uint          `json:"booking_id"`
	UserID     uint          `json:"user_id"`
	UserEmail  string        `json:"user_email"`
	CourtName  string        `json:"court_name"`
	Status     BookingStatus `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

const (
	EVENT_BOOKING_REQUESTED = "booking.requested"
	EVENT_BOOKING_APPROVED  = "booking.approved"
	EVENT_BOOKING_REJECTED  = "booking.rejected"
	EVENT_BOOKING_CONFIRMED = "booking.confirmed"
	EVENT_BOOKING_CANCELLED = "booking.cancelled"
)
