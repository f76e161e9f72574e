package models

import (
	"scb/src/types"
	"time"
)

type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	UserID        uint                `json:"user_id,omitempty"`
	CourtID       uint                `json:"court_id,omitempty"`
	BookingDate   time.Time           `json:"bookingDate,omitempty"`
	SelectedSlots types.SlotList      `gorm:"type:jsonb" json:"selectedSlots,omitempty"`
	TotalPrice    float64             `json:"totalPrice,omitempty"`
	Status        types.BookingStatus `gorm:"default:pending" json:"status,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:unpaid" json:"paymentStatus,omitempty"`

	Court   *Court   `gorm:"foreignKey:court_id" json:"court,omitempty"`
	User    *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Payment *Payment `gorm:"foreignKey:booking_id" json:"payment,omitempty"`

	types.Timestamps
}
