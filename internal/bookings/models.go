package bookings

import (
	"time"

	"airbook/internal/seats"

	"github.com/google/uuid"
)

// Booking is created by a successful claim and never edited afterwards.
type Booking struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	FlightID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"flight_id"`
	Seats         []string      `gorm:"type:jsonb;serializer:json;not null" json:"seats_reserved"`
	TotalPrice    float64       `gorm:"type:numeric(12,2);not null" json:"total_price"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);check:payment_status IN ('pending', 'paid', 'failed');default:'pending'" json:"payment_status"`
	Status        Status        `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	BookingRef    string        `gorm:"unique;not null" json:"booking_ref"`
	BookingTime   time.Time     `gorm:"not null;index" json:"booking_time"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	SeatRows []BookingSeat `json:"-" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookingSeat is one claimed seat. The unique (flight_id, seat) index is
// the database's own guard against a double sale.
type BookingSeat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	FlightID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_booking_seats_flight_seat" json:"flight_id"`
	Seat      string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_booking_seats_flight_seat" json:"seat"`
	CreatedAt time.Time `json:"created_at"`
}

// Occupancy is the versioned occupied-seat record of one flight. Every
// successful claim replaces Seats and bumps Version by exactly one.
type Occupancy struct {
	FlightID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"flight_id"`
	Seats     []string  `gorm:"type:jsonb;serializer:json;not null" json:"seats"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (BookingSeat) TableName() string {
	return "booking_seats"
}

func (Occupancy) TableName() string {
	return "flight_occupancy"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status.IsActive()
}

// Set returns the occupied seats as a lookup set.
func (o *Occupancy) Set() seats.OccupiedSet {
	return seats.NewOccupiedSet(o.Seats...)
}

// Conflicts returns the requested seats that are already occupied, in seat order.
func (o *Occupancy) Conflicts(requested []string) []string {
	occupied := o.Set()
	var out []string
	for _, s := range requested {
		if occupied.Has(s) {
			out = append(out, s)
		}
	}
	return seats.SortSeats(out)
}

// With returns the occupied seats plus requested, in seat order.
func (o *Occupancy) With(requested []string) []string {
	out := make([]string, 0, len(o.Seats)+len(requested))
	out = append(out, o.Seats...)
	out = append(out, requested...)
	return seats.SortSeats(out)
}
