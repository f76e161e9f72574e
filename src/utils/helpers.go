package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"scb/src/config"
	"scb/src/db"
	"scb/src/lib"
	"scb/src/models"
	"scb/src/types"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// ErrInvalidTransition marks a lifecycle request the booking's current status
// does not permit. Handlers map it to 409.
var ErrInvalidTransition = errors.New("booking status does not permit this operation")

// ErrSlotsTaken marks a create request whose slots collide with an existing
// booking on the same court and date.
var ErrSlotsTaken = errors.New("one or more selected slots are no longer available")

// ErrCouponNotUsable marks an inactive, expired or exhausted coupon.
var ErrCouponNotUsable = errors.New("coupon is not valid or has expired")

func GenerateJWT(email string, userId uint, role types.Role) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &types.Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userId)),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// BookingTotal is the creation-time price rule: slot count times the court's
// session price. Never recomputed after creation.
func BookingTotal(slots []string, pricePerSession float64) float64 {
	return float64(len(slots)) * pricePerSession
}

// DiscountFor computes the discount a percentage coupon takes off an amount.
func DiscountFor(amount float64, discountPercentage float64) float64 {
	return amount * discountPercentage / 100
}

// NormalizeSlots validates, dedupes and day-orders slot labels.
func NormalizeSlots(slots []string) ([]string, error) {
	seen := map[string]bool{}
	ordered := []string{}
	for _, label := range types.TimeSlots {
		for _, s := range slots {
			if s == label && !seen[s] {
				seen[s] = true
				ordered = append(ordered, s)
			}
		}
	}
	if len(ordered) != len(slots) {
		for _, s := range slots {
			if types.SlotIndex(s) < 0 {
				return nil, fmt.Errorf("unknown time slot %q", s)
			}
		}
		return nil, errors.New("duplicate time slots selected")
	}
	return ordered, nil
}

// CreateBooking inserts a pending, unpaid booking after checking the slots
// are free on the court for that date.
func CreateBooking(params *types.CreateBookingRequestBody, userId uint) (*models.Booking, error) {
	slots, err := NormalizeSlots(params.SelectedSlots)
	if err != nil {
		return nil, err
	}
	bookingDate, err := time.Parse(config.DATE_PARSE_FORMAT, params.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date: %s", err.Error())
	}

	db := db.GetDb()
	var booking models.Booking
	err = db.Transaction(func(tx *gorm.DB) error {
		var court models.Court
		if err := tx.Where(&models.Court{ID: params.CourtID}).First(&court).Error; err != nil {
			return err
		}
		var existing []models.Booking
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{CourtID: court.ID}).
			Where("booking_date = ?", bookingDate).
			Where("status IN ?", []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_APPROVED, types.BOOKING_CONFIRMED}).
			Find(&existing).
			Error; err != nil {
			return err
		}
		for _, b := range existing {
			for _, taken := range b.SelectedSlots {
				for _, s := range slots {
					if s == taken {
						return ErrSlotsTaken
					}
				}
			}
		}
		booking = models.Booking{
			UserID:        userId,
			CourtID:       court.ID,
			BookingDate:   bookingDate,
			SelectedSlots: types.SlotList(slots),
			TotalPrice:    BookingTotal(slots, court.PricePerSession),
			Status:        types.BOOKING_PENDING,
			PaymentStatus: types.PAYMENT_UNPAID,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		booking.Court = &court
		return nil
	})
	if err != nil {
		return nil, err
	}
	EmitBookingEvent(types.EVENT_BOOKING_REQUESTED, &booking)
	return &booking, nil
}

// UpdateBookingStatus is the admin approve/reject transition. Only pending
// bookings move; anything else is a conflict. The status update is
// conditional on the stored status, so two racing transitions cannot both
// win. The first approval of a plain user's booking promotes them to member.
func UpdateBookingStatus(bookingId uint, newStatus types.BookingStatus) (*models.Booking, error) {
	if newStatus != types.BOOKING_APPROVED && newStatus != types.BOOKING_CANCELLED {
		return nil, ErrInvalidTransition
	}
	db := db.GetDb()
	var booking models.Booking
	promoted := false
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Preload("Court").
			Preload("User").
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.Status != types.BOOKING_PENDING {
			return ErrInvalidTransition
		}
		res := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Where("status = ?", types.BOOKING_PENDING).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		booking.Status = newStatus

		if newStatus == types.BOOKING_APPROVED && booking.User != nil && booking.User.Role == types.ROLE_USER {
			now := time.Now()
			if err := tx.
				Model(&models.User{}).
				Where(&models.User{ID: booking.UserID}).
				Updates(map[string]any{"role": types.ROLE_MEMBER, "member_since": now}).
				Error; err != nil {
				return err
			}
			booking.User.Role = types.ROLE_MEMBER
			booking.User.MemberSince = &now
			promoted = true
			log.Printf("User [%d] promoted to member on first approved booking\n", booking.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if promoted {
		// The profile mirror still holds the pre-promotion role.
		lib.DropUserMirror(context.Background(), booking.UserID)
	}
	if newStatus == types.BOOKING_APPROVED {
		EmitBookingEvent(types.EVENT_BOOKING_APPROVED, &booking)
	} else {
		EmitBookingEvent(types.EVENT_BOOKING_REJECTED, &booking)
	}
	return &booking, nil
}

// CancelBooking is the owner/admin cancel transition. Pending and approved
// bookings cancel; confirmed (paid) bookings are refused and stay as they
// are, which the client reports back as a conflict for an admin to resolve
// out of band.
func CancelBooking(bookingId uint, actorId uint, actorRole types.Role) (*models.Booking, error) {
	db := db.GetDb()
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Preload("User").
			Preload("Court").
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.UserID != actorId && actorRole != types.ROLE_ADMIN {
			return gorm.ErrRecordNotFound
		}
		if booking.Status != types.BOOKING_PENDING && booking.Status != types.BOOKING_APPROVED {
			return ErrInvalidTransition
		}
		res := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Where("status IN ?", []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_APPROVED}).
			Update("status", types.BOOKING_CANCELLED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		booking.Status = types.BOOKING_CANCELLED
		return nil
	})
	if err != nil {
		return nil, err
	}
	EmitBookingEvent(types.EVENT_BOOKING_CANCELLED, &booking)
	return &booking, nil
}

// ValidateCoupon is the pure eligibility check behind GET
// /coupons/validate/:code. It never touches the used count; consumption
// happens inside SubmitPayment.
func ValidateCoupon(code string) (*types.CouponValidationResult, error) {
	db := db.GetDb()
	var coupon models.Coupon
	if err := db.
		Model(&models.Coupon{}).
		Where(&models.Coupon{Code: strings.ToUpper(code)}).
		First(&coupon).
		Error; err != nil {
		return nil, ErrCouponNotUsable
	}
	if !coupon.Usable(time.Now()) {
		return nil, ErrCouponNotUsable
	}
	return &types.CouponValidationResult{
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
	}, nil
}

// SubmitPayment settles an approved booking. One transaction covers the
// status check, the coupon re-validation and consumption, the payment row and
// the confirmed/paid flip, so a limited-use coupon can never be redeemed past
// its limit by concurrent payments.
func SubmitPayment(params *types.SubmitPaymentRequestBody, userId uint) (*models.Payment, error) {
	db := db.GetDb()
	var payment models.Payment
	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: params.BookingID}).
			Preload("Court").
			Preload("User").
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.UserID != userId {
			return gorm.ErrRecordNotFound
		}
		if booking.Status != types.BOOKING_APPROVED {
			return ErrInvalidTransition
		}

		amount := booking.TotalPrice
		discount := 0.0
		var couponCode *string
		if params.CouponCode != "" {
			code := strings.ToUpper(params.CouponCode)
			var coupon models.Coupon
			if err := tx.
				Model(&models.Coupon{}).
				Where(&models.Coupon{Code: code}).
				First(&coupon).
				Error; err != nil {
				return ErrCouponNotUsable
			}
			if !coupon.Usable(time.Now()) {
				return ErrCouponNotUsable
			}
			// The increment is guarded in SQL: a concurrent payment that
			// takes the last use leaves this one with zero affected rows.
			res := tx.
				Model(&models.Coupon{}).
				Where(&models.Coupon{ID: coupon.ID}).
				Where("usage_limit IS NULL OR used_count < usage_limit").
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrCouponNotUsable
			}
			discount = DiscountFor(amount, coupon.DiscountPercentage)
			couponCode = &code
		}

		payment = models.Payment{
			BookingID:      booking.ID,
			UserID:         userId,
			Amount:         amount,
			DiscountAmount: discount,
			FinalAmount:    amount - discount,
			CouponCode:     couponCode,
			PaymentMethod:  params.PaymentMethod,
			TransactionID:  params.TransactionID,
			PaymentDate:    time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		flip := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Where("status = ?", types.BOOKING_APPROVED).
			Updates(map[string]any{
				"status":         types.BOOKING_CONFIRMED,
				"payment_status": types.PAYMENT_PAID,
			})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		booking.Status = types.BOOKING_CONFIRMED
		booking.PaymentStatus = types.PAYMENT_PAID
		return nil
	})
	if err != nil {
		return nil, err
	}
	EmitBookingEvent(types.EVENT_BOOKING_CONFIRMED, &booking)
	return &payment, nil
}

// EmitBookingEvent publishes a lifecycle event for the notifier. Broker
// failures are logged and dropped.
func EmitBookingEvent(eventType string, booking *models.Booking) {
	evt := types.BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		Status:     booking.Status,
		OccurredAt: time.Now(),
	}
	if booking.User != nil {
		evt.UserEmail = booking.User.Email
	}
	if booking.Court != nil {
		evt.CourtName = booking.Court.Name
	}
	go func() {
		if err := lib.KafkaProduceMessage(config.BOOKING_EVENTS_TOPIC, &evt); err != nil {
			log.Printf("Error publishing %s for Booking [%d]: %s\n", eventType, booking.ID, err.Error())
		}
	}()
}

// Paginate builds the next/prev refs the court listing response carries.
func Paginate(page, limit int, total int64) types.Pagination {
	p := types.Pagination{}
	if int64(page*limit) < total {
		p.Next = &types.PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &types.PageRef{Page: page - 1, Limit: limit}
	}
	return p
}
