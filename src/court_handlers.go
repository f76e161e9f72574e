package main

import (
	"fmt"
	"net/http"
	"scb/src/authz"
	"scb/src/db"
	"scb/src/lib"
	"scb/src/middlewares"
	"scb/src/models"
	"scb/src/types"
	"scb/src/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const courtsCacheTTL = 5 * time.Minute

type courtListResponse struct {
	Data       []models.Court   `json:"data"`
	Count      int              `json:"count"`
	Total      int64            `json:"total"`
	Pagination types.Pagination `json:"pagination"`
}

func courtsCacheKey(page, limit int) string {
	return fmt.Sprintf("courts:page:%d:limit:%d", page, limit)
}

func publicCourtRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/courts", func(ctx *gin.Context) {
		var query types.PaginationQuery
		if err := ctx.ShouldBindQuery(&query); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var cached courtListResponse
		if lib.RedisGetJSON(ctx, courtsCacheKey(query.Page, query.Limit), &cached) {
			ctx.JSON(http.StatusOK, cached)
			return
		}

		db := db.GetDb()
		var total int64
		if err := db.Model(&models.Court{}).Count(&total).Error; err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		var courts []models.Court
		if err := db.
			Model(&models.Court{}).
			Order("id ASC").
			Offset((query.Page - 1) * query.Limit).
			Limit(query.Limit).
			Find(&courts).
			Error; err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		res := courtListResponse{
			Data:       courts,
			Count:      len(courts),
			Total:      total,
			Pagination: utils.Paginate(query.Page, query.Limit, total),
		}
		lib.RedisSetJSON(ctx, courtsCacheKey(query.Page, query.Limit), &res, courtsCacheTTL)
		ctx.JSON(http.StatusOK, res)
	})
	return g
}

func courtHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("")
	admin.Use(middlewares.RequireCapability(authz.CapManageCourts))
	admin.
		POST("/courts", func(ctx *gin.Context) {
			var body types.CreateCourtRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			court := models.Court{
				Name:            body.Name,
				Type:            body.Type,
				PricePerSession: body.PricePerSession,
				Capacity:        body.Capacity,
				Description:     body.Description,
				Image:           body.Image,
			}
			if court.Image == "" {
				court.Image = fmt.Sprintf("courts/%s.jpg", slug.Make(body.Name))
			}
			db := db.GetDb()
			if err := db.Create(&court).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			lib.RedisDropPattern(ctx, "courts:*")
			ctx.JSON(http.StatusCreated, gin.H{"message": "Court added successfully!", "data": court})
		}).
		PUT("/courts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateCourtRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var court models.Court
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Court{ID: params.ID}).First(&court).Error; err != nil {
					return err
				}
				updates := models.Court{
					Name:            body.Name,
					Type:            body.Type,
					PricePerSession: body.PricePerSession,
					Capacity:        body.Capacity,
					Description:     body.Description,
					Image:           body.Image,
				}
				if err := tx.Model(&court).Updates(&updates).Error; err != nil {
					return err
				}
				return tx.Where(&models.Court{ID: params.ID}).First(&court).Error
			})
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			lib.RedisDropPattern(ctx, "courts:*")
			ctx.JSON(http.StatusOK, gin.H{"message": "Court updated successfully!", "data": court})
		}).
		DELETE("/courts/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.Court{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			lib.RedisDropPattern(ctx, "courts:*")
			ctx.JSON(http.StatusOK, gin.H{"message": "Court deleted successfully!"})
		})
	return g
}
