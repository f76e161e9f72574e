package main

import (
	"net/http"
	"scb/src/authz"
	"scb/src/db"
	"scb/src/lib"
	"scb/src/middlewares"
	"scb/src/models"
	"scb/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/profile", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var user models.User
			if lib.RedisGetJSON(ctx, lib.UserMirrorKey(userId), &user) && user.ID == userId {
				ctx.JSON(http.StatusOK, gin.H{"data": user})
				return
			}
			db := db.GetDb()
			if err := db.
				Model(&models.User{}).
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			lib.RedisSetJSON(ctx, lib.UserMirrorKey(userId), &user, lib.UserMirrorTTL)
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		PUT("/users/profile", func(ctx *gin.Context) {
			var body types.UpdateProfileRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where(&models.User{ID: userId}).First(&user).Error; err != nil {
					return err
				}
				updates := models.User{Name: body.Name, ProfileImage: body.ProfileImage}
				if err := tx.Model(&user).Updates(&updates).Error; err != nil {
					return err
				}
				return tx.Where(&models.User{ID: userId}).First(&user).Error
			})
			if err != nil {
				ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
				return
			}
			lib.RedisSetJSON(ctx, lib.UserMirrorKey(userId), &user, lib.UserMirrorTTL)
			ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "data": user})
		})

	admin := g.Group("")
	admin.Use(middlewares.RequireCapability(authz.CapManageMembers))
	admin.
		GET("/users", func(ctx *gin.Context) {
			db := db.GetDb()
			var users []models.User
			if err := db.Model(&models.User{}).Order("created_at DESC").Find(&users).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		DELETE("/users/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if params.ID == ctx.GetUint("id") {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.User{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			lib.DropUserMirror(ctx, params.ID)
			ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully!"})
		})
	return g
}
