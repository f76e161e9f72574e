package models

import "scb/src/types"

type Court struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Name            string          `json:"name,omitempty"`
	Type            types.CourtType `json:"type,omitempty"`
	PricePerSession float64         `json:"pricePerSession,omitempty"`
	Capacity        uint            `json:"capacity,omitempty"`
	Description     string          `json:"description,omitempty"`
	Image           string          `json:"image,omitempty"`

	Bookings []Booking `gorm:"foreignKey:court_id" json:"bookings,omitempty"`

	types.Timestamps
}
