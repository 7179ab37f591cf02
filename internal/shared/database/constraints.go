package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes and checks AutoMigrate cannot express.
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		// available seats never exceed capacity
		`DO $$ BEGIN
			ALTER TABLE flights ADD CONSTRAINT chk_flights_available_le_total
			CHECK (available_seats <= total_seats);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;`,
		`CREATE INDEX IF NOT EXISTS idx_flights_route_departure
			ON flights (departure_airport, arrival_airport, departure_time)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_time
			ON bookings (user_id, booking_time DESC)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
