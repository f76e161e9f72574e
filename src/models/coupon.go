package models

import (
	"scb/src/types"
	"time"
)

type Coupon struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Code               string    `gorm:"uniqueIndex" json:"code,omitempty"`
	DiscountPercentage float64   `json:"discountPercentage,omitempty"`
	ExpirationDate     time.Time `json:"expirationDate,omitempty"`
	IsActive           bool      `gorm:"default:true" json:"isActive"`
	UsageLimit         *uint     `json:"usageLimit,omitempty"`
	UsedCount          uint      `gorm:"default:0" json:"usedCount"`

	types.Timestamps
}

// Usable reports whether the coupon can still be redeemed at the given
// instant: active, not expired, and under its usage limit when one is set.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.After(c.ExpirationDate) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}
