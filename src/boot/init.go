package boot

import (
	"encoding/json"
	"fmt"
	"log"
	"scb/src/config"
	"scb/src/db"
	"scb/src/lib"
	"scb/src/lib/mailer"
	"scb/src/models"
	"scb/src/types"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Court{},
		&models.Booking{},
		&models.Coupon{},
		&models.Payment{},
		&models.Announcement{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitBroker starts the booking-event notifier. Approval and confirmation
// events become emails; everything else is only logged.
func InitBroker() {
	go lib.KafkaConsume(config.BOOKING_EVENTS_TOPIC, "scb-notifier", func(value []byte) {
		var evt types.BookingEvent
		if err := json.Unmarshal(value, &evt); err != nil {
			log.Printf("[notifier] Error decoding event: %s\n", err.Error())
			return
		}
		log.Printf("[notifier] %s for Booking [%d]\n", evt.Type, evt.BookingID)
		if evt.UserEmail == "" {
			return
		}
		var subject, body string
		switch evt.Type {
		case types.EVENT_BOOKING_APPROVED:
			subject = "Your booking has been approved"
			body = fmt.Sprintf("Your booking for %s has been approved. Please complete the payment from your dashboard to confirm it.", evt.CourtName)
		case types.EVENT_BOOKING_CONFIRMED:
			subject = "Your booking is confirmed"
			body = fmt.Sprintf("Payment received. Your booking for %s is confirmed. See you at the club!", evt.CourtName)
		default:
			return
		}
		if err := mailer.Send(&mailer.SendMailInput{To: evt.UserEmail, Subject: subject, Body: body}); err != nil {
			log.Printf("[notifier] Error sending mail for Booking [%d]: %s\n", evt.BookingID, err.Error())
		}
	})
}

// InitScheduler registers the recurring maintenance jobs: a daily sweep that
// deactivates expired coupons and a report of pending bookings an admin has
// left sitting for over a week.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(DeactivateExpiredCoupons),
	)
	if err != nil {
		log.Printf("Error scheduling coupon sweep: %s\n", err.Error())
	}
	_, err = sched.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(ReportStalePendingBookings),
	)
	if err != nil {
		log.Printf("Error scheduling pending-booking report: %s\n", err.Error())
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down Scheduler: %s\n", err.Error())
	}
}

func DeactivateExpiredCoupons() {
	db := db.GetDb()
	res := db.
		Model(&models.Coupon{}).
		Where("is_active = ?", true).
		Where("expiration_date < ?", time.Now()).
		Update("is_active", false)
	if res.Error != nil {
		log.Printf("Error deactivating expired coupons: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Deactivated %d expired coupons\n", res.RowsAffected)
	}
}

func ReportStalePendingBookings() {
	db := db.GetDb()
	var count int64
	err := db.
		Model(&models.Booking{}).
		Where(&models.Booking{Status: types.BOOKING_PENDING}).
		Where("created_at < ?", time.Now().AddDate(0, 0, -7)).
		Count(&count).
		Error
	if err != nil {
		log.Printf("Error counting stale pending bookings: %s\n", err.Error())
		return
	}
	if count > 0 {
		log.Printf("%d booking requests have been pending for over a week\n", count)
	}
}
