package models

import (
	"scb/src/types"
	"time"
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Name         string     `json:"name,omitempty"`
	Email        string     `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         types.Role `gorm:"default:user" json:"role,omitempty"`
	MemberSince  *time.Time `json:"memberSince,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Payments []Payment `gorm:"foreignKey:user_id" json:"payments,omitempty"`

	types.Timestamps
}
