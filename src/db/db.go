package db

import (
	"log"
	"scb/src/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	maxIdleConns = 10
	maxOpenConns = 100
)

var db *gorm.DB

// GetDb returns the process-wide connection, opening it on first use.
// TranslateError maps driver errors onto gorm sentinels, so handlers can
// match gorm.ErrDuplicatedKey instead of parsing pgx error codes.
func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	conn, err := gorm.Open(postgres.Open(config.GetDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Printf("Error opening database connection: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		log.Fatalf("Error configuring database pool: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)

	db = conn
	return conn
}

// NewDB swaps in an externally constructed connection, used by tests.
func NewDB(newdb *gorm.DB) {
	db = newdb
}
