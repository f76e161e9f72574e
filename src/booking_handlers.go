package main

import (
	"errors"
	"net/http"
	"scb/src/authz"
	"scb/src/db"
	"scb/src/middlewares"
	"scb/src/models"
	"scb/src/types"
	"scb/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, utils.ErrInvalidTransition), errors.Is(err, utils.ErrSlotsTaken),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, utils.ErrCouponNotUsable):
		return http.StatusBadRequest
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func listOwnBookings(ctx *gin.Context, statuses ...types.BookingStatus) {
	userId := ctx.GetUint("id")
	db := db.GetDb()
	var bookings []models.Booking
	q := db.
		Model(&models.Booking{}).
		Where(&models.Booking{UserID: userId}).
		Preload("Court").
		Order("created_at DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Find(&bookings).Error; err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			booking, err := utils.CreateBooking(&body, userId)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"message": "Booking request submitted successfully!", "data": booking})
		}).
		GET("/bookings/my", func(ctx *gin.Context) {
			listOwnBookings(ctx)
		}).
		GET("/bookings/my/approved", func(ctx *gin.Context) {
			listOwnBookings(ctx, types.BOOKING_APPROVED)
		}).
		GET("/bookings/my/confirmed", func(ctx *gin.Context) {
			listOwnBookings(ctx, types.BOOKING_CONFIRMED)
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Court").
				Preload("Payment").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if booking.UserID != userId && role != types.ROLE_ADMIN {
				ctx.Status(http.StatusForbidden)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			booking, err := utils.CancelBooking(params.ID, userId, role)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully!", "data": booking})
		})

	admin := g.Group("")
	admin.Use(middlewares.RequireCapability(authz.CapApproveBookings))
	admin.
		GET("/bookings/admin/requests", func(ctx *gin.Context) {
			db := db.GetDb()
			var bookings []models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{Status: types.BOOKING_PENDING}).
				Preload("Court").
				Preload("User").
				Order("created_at ASC").
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/admin/confirmed", func(ctx *gin.Context) {
			db := db.GetDb()
			var bookings []models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{Status: types.BOOKING_CONFIRMED}).
				Preload("Court").
				Preload("User").
				Preload("Payment").
				Order("created_at DESC").
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		PUT("/bookings/admin/status/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := utils.UpdateBookingStatus(params.ID, body.Status)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Booking status updated successfully!", "data": booking})
		})

	return g
}
