package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponUsable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limit := uint(100)

	coupon := Coupon{
		Code:               "SPRING25",
		DiscountPercentage: 25,
		ExpirationDate:     now.Add(30 * 24 * time.Hour),
		IsActive:           true,
		UsageLimit:         &limit,
		UsedCount:          10,
	}
	assert.True(t, coupon.Usable(now))

	inactive := coupon
	inactive.IsActive = false
	assert.False(t, inactive.Usable(now))

	expired := coupon
	expired.ExpirationDate = now.Add(-time.Hour)
	assert.False(t, expired.Usable(now))

	exhausted := coupon
	exhausted.UsedCount = limit
	assert.False(t, exhausted.Usable(now))

	unlimited := coupon
	unlimited.UsageLimit = nil
	unlimited.UsedCount = 1_000_000
	assert.True(t, unlimited.Usable(now), "no usage limit means count never blocks")
}
