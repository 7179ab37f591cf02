package flights

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOnTime    Status = "on_time"
	StatusDelayed   Status = "delayed"
	StatusCancelled Status = "cancelled"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusOnTime, StatusDelayed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Flight is immutable after creation except for AvailableSeats and Status.
type Flight struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	FlightNumber     string    `json:"flight_number" gorm:"type:varchar(10);not null;index"`
	DepartureAirport string    `json:"departure_airport" gorm:"type:varchar(100);not null;index"`
	ArrivalAirport   string    `json:"arrival_airport" gorm:"type:varchar(100);not null;index"`
	DepartureTime    time.Time `json:"departure_time" gorm:"not null;index"`
	ArrivalTime      time.Time `json:"arrival_time" gorm:"not null"`
	Price            float64   `json:"price" gorm:"type:numeric(10,2);not null;check:price >= 0"`
	TotalSeats       int       `json:"total_seats" gorm:"not null;default:150;check:total_seats > 0"`
	AvailableSeats   int       `json:"available_seats" gorm:"not null;check:available_seats >= 0"`
	Status           Status    `json:"status" gorm:"type:varchar(10);not null;default:'on_time'"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Flight) TableName() string {
	return "flights"
}

func (f *Flight) IsCancelled() bool {
	return f.Status == StatusCancelled
}

// DepartureDay is the UTC calendar day of departure, formatted YYYY-MM-DD.
func (f *Flight) DepartureDay() string {
	return f.DepartureTime.UTC().Format(DateLayout)
}
