package controllers

import (
	"errors"
	"log"
	"net/http"
	"scb/src/db"
	"scb/src/lib"
	"scb/src/models"
	"scb/src/types"
	"scb/src/utils"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrBadCredentials = errors.New("invalid email or password")

// AuthLogin verifies credentials and returns the signed token plus the user
// record the client persists in its session store.
func AuthLogin(ctx *gin.Context) (user *models.User, token string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, "", http.StatusBadRequest, err
	}

	db := db.GetDb()
	var muser models.User
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Email: strings.ToLower(body.Email)}).
		First(&muser).
		Error; err != nil {
		log.Printf("login failed for %s: %s\n", body.Email, err.Error())
		return nil, "", http.StatusUnauthorized, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(muser.PasswordHash), []byte(body.Password)); err != nil {
		return nil, "", http.StatusUnauthorized, ErrBadCredentials
	}

	jwt, err := utils.GenerateJWT(muser.Email, muser.ID, muser.Role)
	if err != nil {
		log.Printf("Error generating token for user [%d]: %s\n", muser.ID, err.Error())
		return nil, "", http.StatusInternalServerError, err
	}

	lib.RedisSetJSON(ctx, lib.UserMirrorKey(muser.ID), &muser, lib.UserMirrorTTL)

	return &muser, jwt, http.StatusOK, nil
}

// AuthRegister creates a plain user account. Role starts as "user"; member
// is only ever granted by a first approved booking.
func AuthRegister(ctx *gin.Context) (status int, err error) {
	var body types.RegisterRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return http.StatusInternalServerError, err
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.
			Model(&models.User{}).
			Where(&models.User{Email: strings.ToLower(body.Email)}).
			First(&existing).
			Error
		if err == nil {
			return errors.New("an account with this email already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user := models.User{
			Name:         body.Name,
			Email:        strings.ToLower(body.Email),
			PasswordHash: string(hash),
			Role:         types.ROLE_USER,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return http.StatusBadRequest, err
	}
	return http.StatusCreated, nil
}
