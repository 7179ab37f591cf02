package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airbook/internal/flights"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Claim is one attempt to move a flight's occupancy from ExpectedVersion to
// ExpectedVersion+1 by recording Booking.
type Claim struct {
	Booking         *Booking
	Seats           []string // full occupied set after the claim
	ExpectedVersion int64
}

// Store is the authoritative seat inventory.
type Store interface {
	// LoadOccupancy never fails for a flight that has no record yet; it
	// returns an empty occupancy at version 0.
	LoadOccupancy(ctx context.Context, flightID uuid.UUID) (*Occupancy, error)

	// Commit applies the claim or returns ErrStaleVersion when another claim
	// won the race. ErrFlightCancelled and flights.ErrFlightNotFound are final.
	Commit(ctx context.Context, claim *Claim) error

	InitOccupancy(ctx context.Context, flightID uuid.UUID) error
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore expects a *gorm.DB opened with TranslateError enabled.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (r *gormStore) LoadOccupancy(ctx context.Context, flightID uuid.UUID) (*Occupancy, error) {
	var occ Occupancy
	err := r.db.WithContext(ctx).Where("flight_id = ?", flightID).First(&occ).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Occupancy{FlightID: flightID, Seats: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to load occupancy: %w", err)
	}
	if occ.Seats == nil {
		occ.Seats = []string{}
	}
	return &occ, nil
}

func (r *gormStore) Commit(ctx context.Context, claim *Claim) error {
	booking := claim.Booking
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the flight row (SELECT ... FOR UPDATE) against status changes
		var flight struct {
			ID             uuid.UUID `gorm:"column:id"`
			Status         string    `gorm:"column:status"`
			AvailableSeats int       `gorm:"column:available_seats"`
		}
		err := tx.Table("flights").
			Select("id, status, available_seats").
			Where("id = ?", booking.FlightID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&flight).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return flights.ErrFlightNotFound
			}
			return fmt.Errorf("failed to lock flight: %w", err)
		}
		if flight.Status == string(flights.StatusCancelled) {
			return ErrFlightCancelled
		}
		if flight.AvailableSeats < len(booking.Seats) {
			return fmt.Errorf("available_seats %d below claim of %d seats", flight.AvailableSeats, len(booking.Seats))
		}

		// 2. Compare-and-swap the occupancy version
		next := Occupancy{FlightID: booking.FlightID, Seats: claim.Seats, Version: claim.ExpectedVersion + 1, UpdatedAt: time.Now()}
		res := tx.Model(&Occupancy{}).
			Where("flight_id = ? AND version = ?", booking.FlightID, claim.ExpectedVersion).
			Select("seats", "version", "updated_at").
			Updates(&next)
		if res.Error != nil {
			return fmt.Errorf("failed to update occupancy: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			if claim.ExpectedVersion != 0 {
				return ErrStaleVersion
			}
			// first claim on a flight created before occupancy tracking
			if err := tx.Create(&next).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrStaleVersion
				}
				return fmt.Errorf("failed to create occupancy: %w", err)
			}
		}

		// 3. Create the booking and its seat rows
		booking.SeatRows = make([]BookingSeat, 0, len(booking.Seats))
		for _, s := range booking.Seats {
			booking.SeatRows = append(booking.SeatRows, BookingSeat{FlightID: booking.FlightID, Seat: s})
		}
		if err := tx.Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrStaleVersion
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// 4. Update available seats
		err = tx.Model(&flights.Flight{}).
			Where("id = ?", booking.FlightID).
			Update("available_seats", gorm.Expr("available_seats - ?", len(booking.Seats))).Error
		if err != nil {
			return fmt.Errorf("failed to update available seats: %w", err)
		}
		return nil
	})
}

func (r *gormStore) InitOccupancy(ctx context.Context, flightID uuid.UUID) error {
	occ := Occupancy{FlightID: flightID, Seats: []string{}}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&occ).Error
}

func (r *gormStore) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *gormStore) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("booking_time DESC").
		Find(&bookings).Error
	return bookings, err
}
