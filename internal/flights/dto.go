package flights

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidCriteria = errors.New("invalid search criteria")

// CriteriaError lists the query parameters that could not be parsed.
type CriteriaError struct {
	Fields map[string]string
}

func (e *CriteriaError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidCriteria, strings.Join(parts, "; "))
}

func (e *CriteriaError) Is(target error) bool { return target == ErrInvalidCriteria }

// ParseCriteria reads search criteria from query parameters. Empty values
// count as unset.
func ParseCriteria(q url.Values) (Criteria, error) {
	var c Criteria
	bad := map[string]string{}

	str := func(key string) *string {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			return nil
		}
		return &v
	}
	day := func(key string) *string {
		v := str(key)
		if v == nil {
			return nil
		}
		if _, err := time.Parse(DateLayout, *v); err != nil {
			bad[key] = "expected YYYY-MM-DD"
			return nil
		}
		return v
	}
	price := func(key string) *float64 {
		v := str(key)
		if v == nil {
			return nil
		}
		p, err := strconv.ParseFloat(*v, 64)
		if err != nil || p < 0 {
			bad[key] = "expected a non-negative number"
			return nil
		}
		return &p
	}

	c.DepartureAirport = str("departure_airport")
	c.ArrivalAirport = str("arrival_airport")
	c.FlightNumber = str("flight_number")
	c.DepartureDate = day("departure_date")
	c.StartDate = day("start_date")
	c.EndDate = day("end_date")
	c.MinPrice = price("min_price")
	c.MaxPrice = price("max_price")

	if v := str("sort_by"); v != nil {
		switch SortField(strings.ToLower(*v)) {
		case SortByPrice, SortByDepartureTime:
			c.SortBy = SortField(strings.ToLower(*v))
		default:
			bad["sort_by"] = "expected price or departure_time"
		}
	}
	c.SortOrder = SortAsc
	if v := str("sort_order"); v != nil {
		switch SortOrder(strings.ToLower(*v)) {
		case SortAsc, SortDesc:
			c.SortOrder = SortOrder(strings.ToLower(*v))
		default:
			bad["sort_order"] = "expected asc or desc"
		}
	}

	if len(bad) > 0 {
		return Criteria{}, &CriteriaError{Fields: bad}
	}
	return c, nil
}

// Values encodes c as query parameters that ParseCriteria reads back.
func (c Criteria) Values() url.Values {
	q := url.Values{}
	set := func(key string, v *string) {
		if v != nil {
			q.Set(key, *v)
		}
	}
	setPrice := func(key string, v *float64) {
		if v != nil {
			q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	set("departure_airport", c.DepartureAirport)
	set("arrival_airport", c.ArrivalAirport)
	set("flight_number", c.FlightNumber)
	set("departure_date", c.DepartureDate)
	set("start_date", c.StartDate)
	set("end_date", c.EndDate)
	setPrice("min_price", c.MinPrice)
	setPrice("max_price", c.MaxPrice)
	if c.SortBy != "" {
		q.Set("sort_by", string(c.SortBy))
		if c.SortOrder != "" {
			q.Set("sort_order", string(c.SortOrder))
		}
	}
	return q
}

// FlightResponse omits available_seats for anonymous callers.
type FlightResponse struct {
	ID               uuid.UUID `json:"id"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	Price            float64   `json:"price"`
	TotalSeats       int       `json:"total_seats"`
	AvailableSeats   *int      `json:"available_seats,omitempty"`
	Status           Status    `json:"status"`
}

func ToResponse(f Flight, withAvailability bool) FlightResponse {
	r := FlightResponse{
		ID:               f.ID,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		DepartureTime:    f.DepartureTime,
		ArrivalTime:      f.ArrivalTime,
		Price:            f.Price,
		TotalSeats:       f.TotalSeats,
		Status:           f.Status,
	}
	if withAvailability {
		available := f.AvailableSeats
		r.AvailableSeats = &available
	}
	return r
}

func ToResponses(flights []Flight, withAvailability bool) []FlightResponse {
	out := make([]FlightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, ToResponse(f, withAvailability))
	}
	return out
}

type CreateFlightRequest struct {
	FlightNumber     string    `json:"flight_number" validate:"required,min=2,max=10"`
	DepartureAirport string    `json:"departure_airport" validate:"required,min=2,max=100"`
	ArrivalAirport   string    `json:"arrival_airport" validate:"required,min=2,max=100,nefield=DepartureAirport"`
	DepartureTime    time.Time `json:"departure_time" validate:"required"`
	ArrivalTime      time.Time `json:"arrival_time" validate:"required,gtfield=DepartureTime"`
	Price            float64   `json:"price" validate:"min=0"`
	TotalSeats       int       `json:"total_seats" validate:"required,min=1,max=1000"`
	Status           string    `json:"status" validate:"omitempty,oneof=on_time delayed cancelled"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=on_time delayed cancelled"`
}
