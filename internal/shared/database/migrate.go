package database

import (
	"airbook/internal/bookings"
	"airbook/internal/flights"
	"airbook/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&users.User{},
		&flights.Flight{},
		&bookings.Occupancy{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
	)
}
