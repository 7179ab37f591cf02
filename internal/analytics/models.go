package analytics

import (
	"time"

	"github.com/google/uuid"
)

// FlightLoad is the sales picture of one flight.
type FlightLoad struct {
	FlightID         uuid.UUID `json:"flight_id"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	Status           string    `json:"status"`
	TotalSeats       int       `json:"total_seats"`
	AvailableSeats   int       `json:"available_seats"`
	Bookings         int       `json:"bookings"`
	SeatsSold        int       `json:"seats_sold"`
	Revenue          float64   `json:"revenue"`
	LoadFactor       float64   `json:"load_factor"` // percent of total seats sold
}

type DailyBookingStats struct {
	Date     string  `json:"date"`
	Bookings int     `json:"bookings"`
	Seats    int     `json:"seats"`
	Revenue  float64 `json:"revenue"`
}

type Overview struct {
	TotalFlights    int            `json:"total_flights"`
	FlightsByStatus map[string]int `json:"flights_by_status"`
	TotalBookings   int            `json:"total_bookings"`
	SeatsOffered    int            `json:"seats_offered"`
	SeatsSold       int            `json:"seats_sold"`
	LoadFactor      float64        `json:"load_factor"`
	Revenue         float64        `json:"revenue"`
	PendingUsers    int            `json:"pending_users"`
}

type Dashboard struct {
	Overview    Overview            `json:"overview"`
	TopFlights  []FlightLoad        `json:"top_flights"`
	Daily       []DailyBookingStats `json:"daily_bookings"`
	GeneratedAt time.Time           `json:"generated_at"`
}
