package main

import (
	"net/http"
	"scb/src/db"
	"scb/src/models"
	"scb/src/types"
	"scb/src/utils"

	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments", func(ctx *gin.Context) {
			var body types.SubmitPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			payment, err := utils.SubmitPayment(&body, userId)
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"message": "Payment successful and booking confirmed!", "data": payment})
		}).
		GET("/payments/my", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var payments []models.Payment
			if err := db.
				Model(&models.Payment{}).
				Where(&models.Payment{UserID: userId}).
				Preload("Booking").
				Preload("Booking.Court").
				Order("payment_date DESC").
				Find(&payments).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		})
	return g
}
