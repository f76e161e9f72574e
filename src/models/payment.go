package models

import (
	"scb/src/types"
	"time"
)

type Payment struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	BookingID      uint      `gorm:"uniqueIndex" json:"booking_id,omitempty"`
	UserID         uint      `json:"user_id,omitempty"`
	Amount         float64   `json:"amount,omitempty"`
	DiscountAmount float64   `json:"discountAmount"`
	FinalAmount    float64   `json:"finalAmount,omitempty"`
	CouponCode     *string   `json:"couponCode,omitempty"`
	PaymentMethod  string    `json:"paymentMethod,omitempty"`
	TransactionID  string    `json:"transactionId,omitempty"`
	PaymentDate    time.Time `json:"paymentDate,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`
	User    *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
