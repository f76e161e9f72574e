package main

import (
	"net/http"
	"scb/src/authz"
	"scb/src/config"
	"scb/src/db"
	"scb/src/middlewares"
	"scb/src/models"
	"scb/src/types"
	"scb/src/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func couponHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/coupons/validate/:code", func(ctx *gin.Context) {
		var params types.CouponCodeParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := utils.ValidateCoupon(params.Code)
		if err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": result})
	})

	admin := g.Group("")
	admin.Use(middlewares.RequireCapability(authz.CapManageCoupons))
	admin.
		GET("/coupons", func(ctx *gin.Context) {
			db := db.GetDb()
			var coupons []models.Coupon
			if err := db.Model(&models.Coupon{}).Order("created_at DESC").Find(&coupons).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": coupons, "count": len(coupons)})
		}).
		POST("/coupons", func(ctx *gin.Context) {
			var body types.CreateCouponRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			expiration, err := time.Parse(config.DATE_PARSE_FORMAT, body.ExpirationDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiration date"})
				return
			}
			coupon := models.Coupon{
				Code:               strings.ToUpper(body.Code),
				DiscountPercentage: body.DiscountPercentage,
				ExpirationDate:     expiration,
				IsActive:           true,
				UsageLimit:         body.UsageLimit,
			}
			if body.IsActive != nil {
				coupon.IsActive = *body.IsActive
			}
			db := db.GetDb()
			if err := db.Create(&coupon).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"message": "Coupon added successfully!", "data": coupon})
		}).
		PUT("/coupons/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateCouponRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var coupon models.Coupon
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Coupon{ID: params.ID}).First(&coupon).Error; err != nil {
					return err
				}
				updates := map[string]any{}
				if body.Code != "" {
					updates["code"] = strings.ToUpper(body.Code)
				}
				if body.DiscountPercentage > 0 {
					updates["discount_percentage"] = body.DiscountPercentage
				}
				if body.ExpirationDate != "" {
					expiration, err := time.Parse(config.DATE_PARSE_FORMAT, body.ExpirationDate)
					if err != nil {
						return err
					}
					updates["expiration_date"] = expiration
				}
				if body.IsActive != nil {
					updates["is_active"] = *body.IsActive
				}
				if body.UsageLimit != nil {
					updates["usage_limit"] = *body.UsageLimit
				}
				if err := tx.Model(&coupon).Updates(updates).Error; err != nil {
					return err
				}
				return tx.Where(&models.Coupon{ID: params.ID}).First(&coupon).Error
			})
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Coupon updated successfully!", "data": coupon})
		}).
		DELETE("/coupons/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.Coupon{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully!"})
		})
	return g
}
