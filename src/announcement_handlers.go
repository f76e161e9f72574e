package main

import (
	"net/http"
	"scb/src/authz"
	"scb/src/db"
	"scb/src/lib"
	"scb/src/middlewares"
	"scb/src/models"
	"scb/src/types"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const announcementsCacheKey = "announcements:active"
const announcementsCacheTTL = 5 * time.Minute

func publicAnnouncementRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/announcements", func(ctx *gin.Context) {
		var cached []models.Announcement
		if lib.RedisGetJSON(ctx, announcementsCacheKey, &cached) {
			ctx.JSON(http.StatusOK, gin.H{"data": cached, "count": len(cached)})
			return
		}
		db := db.GetDb()
		var announcements []models.Announcement
		if err := db.
			Model(&models.Announcement{}).
			Where(&models.Announcement{IsActive: true}).
			Preload("Author", func(tx *gorm.DB) *gorm.DB {
				return tx.Select("id", "name")
			}).
			Order("published_date DESC").
			Find(&announcements).
			Error; err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		lib.RedisSetJSON(ctx, announcementsCacheKey, &announcements, announcementsCacheTTL)
		ctx.JSON(http.StatusOK, gin.H{"data": announcements, "count": len(announcements)})
	})
	return g
}

func announcementHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/announcements/admin")
	admin.Use(middlewares.RequireCapability(authz.CapManageAnnouncements))
	admin.
		GET("", func(ctx *gin.Context) {
			db := db.GetDb()
			var announcements []models.Announcement
			if err := db.
				Model(&models.Announcement{}).
				Order("published_date DESC").
				Find(&announcements).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": announcements, "count": len(announcements)})
		}).
		POST("", func(ctx *gin.Context) {
			var body types.CreateAnnouncementRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			announcement := models.Announcement{
				Title:         body.Title,
				Slug:          slug.Make(body.Title),
				Content:       body.Content,
				AuthorID:      ctx.GetUint("id"),
				PublishedDate: time.Now(),
				IsActive:      true,
			}
			if body.IsActive != nil {
				announcement.IsActive = *body.IsActive
			}
			db := db.GetDb()
			if err := db.Create(&announcement).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			lib.RedisDropPattern(ctx, "announcements:*")
			ctx.JSON(http.StatusCreated, gin.H{"message": "Announcement published successfully!", "data": announcement})
		}).
		PUT("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateAnnouncementRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var announcement models.Announcement
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.Announcement{ID: params.ID}).First(&announcement).Error; err != nil {
					return err
				}
				updates := map[string]any{}
				if body.Title != "" {
					updates["title"] = body.Title
					updates["slug"] = slug.Make(body.Title)
				}
				if body.Content != "" {
					updates["content"] = body.Content
				}
				if body.IsActive != nil {
					updates["is_active"] = *body.IsActive
				}
				if err := tx.Model(&announcement).Updates(updates).Error; err != nil {
					return err
				}
				return tx.Where(&models.Announcement{ID: params.ID}).First(&announcement).Error
			})
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			lib.RedisDropPattern(ctx, "announcements:*")
			ctx.JSON(http.StatusOK, gin.H{"message": "Announcement updated successfully!", "data": announcement})
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.Announcement{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			lib.RedisDropPattern(ctx, "announcements:*")
			ctx.JSON(http.StatusOK, gin.H{"message": "Announcement deleted successfully!"})
		})
	return g
}
