package main

import (
	"net/http"
	"scb/src/authz"
	"scb/src/db"
	"scb/src/middlewares"
	"scb/src/models"
	"scb/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/admin")
	admin.Use(middlewares.RequireCapability(authz.CapViewStats))
	admin.GET("/stats", func(ctx *gin.Context) {
		db := db.GetDb()
		var stats types.AdminStats
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).Where(&models.User{Role: types.ROLE_MEMBER}).Count(&stats.TotalMembers).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Court{}).Count(&stats.TotalCourts).Error; err != nil {
				return err
			}
			counts := map[types.BookingStatus]*int64{
				types.BOOKING_PENDING:   &stats.PendingBookings,
				types.BOOKING_APPROVED:  &stats.ApprovedBookings,
				types.BOOKING_CONFIRMED: &stats.ConfirmedBookings,
				types.BOOKING_CANCELLED: &stats.CancelledBookings,
			}
			for status, dst := range counts {
				if err := tx.Model(&models.Booking{}).Where(&models.Booking{Status: status}).Count(dst).Error; err != nil {
					return err
				}
			}
			return tx.
				Model(&models.Payment{}).
				Select("COALESCE(SUM(final_amount), 0)").
				Scan(&stats.TotalRevenue).
				Error
		})
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": stats})
	})
	return g
}
