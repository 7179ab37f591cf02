package analytics

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FlightLoads(ctx context.Context) ([]FlightLoad, error)
	DailyBookings(ctx context.Context, since time.Time) ([]DailyBookingStats, error)
	CountPendingUsers(ctx context.Context) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FlightLoads(ctx context.Context) ([]FlightLoad, error) {
	var loads []FlightLoad
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			f.id AS flight_id,
			f.flight_number,
			f.departure_airport,
			f.arrival_airport,
			f.departure_time,
			f.status,
			f.total_seats,
			f.available_seats,
			COUNT(b.id) AS bookings,
			COALESCE(SUM(jsonb_array_length(b.seats)), 0) AS seats_sold,
			COALESCE(SUM(b.total_price), 0) AS revenue
		FROM flights f
		LEFT JOIN bookings b ON b.flight_id = f.id AND b.status = 'CONFIRMED'
		GROUP BY f.id
		ORDER BY f.departure_time ASC
	`).Scan(&loads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate flight loads: %w", err)
	}
	return loads, nil
}

func (r *repository) DailyBookings(ctx context.Context, since time.Time) ([]DailyBookingStats, error) {
	var stats []DailyBookingStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			TO_CHAR(DATE(booking_time AT TIME ZONE 'UTC'), 'YYYY-MM-DD') AS date,
			COUNT(*) AS bookings,
			COALESCE(SUM(jsonb_array_length(seats)), 0) AS seats,
			COALESCE(SUM(total_price), 0) AS revenue
		FROM bookings
		WHERE status = 'CONFIRMED' AND booking_time >= ?
		GROUP BY 1
		ORDER BY 1 DESC
	`, since).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily booking stats: %w", err)
	}
	return stats, nil
}

func (r *repository) CountPendingUsers(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("users").Where("approval_status = ?", "pending").Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending users: %w", err)
	}
	return int(count), nil
}
