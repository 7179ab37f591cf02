package flights

import (
	"sort"
	"strings"
)

const DateLayout = "2006-01-02"

type SortField string

const (
	SortByPrice         SortField = "price"
	SortByDepartureTime SortField = "departure_time"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Criteria narrows the catalog. Nil fields are unset; all set fields must
// match. Days are UTC calendar days formatted with DateLayout.
type Criteria struct {
	DepartureAirport *string
	ArrivalAirport   *string
	DepartureDate    *string
	FlightNumber     *string
	MinPrice         *float64
	MaxPrice         *float64
	StartDate        *string
	EndDate          *string
	SortBy           SortField
	SortOrder        SortOrder
}

// IsZero reports whether no filter or sort option is set.
func (c Criteria) IsZero() bool {
	return c.DepartureAirport == nil && c.ArrivalAirport == nil &&
		c.DepartureDate == nil && c.FlightNumber == nil &&
		c.MinPrice == nil && c.MaxPrice == nil &&
		c.StartDate == nil && c.EndDate == nil &&
		c.SortBy == ""
}

// Search returns the flights of catalog that match c, in catalog order
// unless c.SortBy is set. The sort is stable. The input slice is not modified
// and an empty result is returned as an empty, non-nil slice.
func Search(catalog []Flight, c Criteria) []Flight {
	out := make([]Flight, 0, len(catalog))
	for _, f := range catalog {
		if matches(&f, c) {
			out = append(out, f)
		}
	}
	sortFlights(out, c.SortBy, c.SortOrder)
	return out
}

func matches(f *Flight, c Criteria) bool {
	if !matchAirports(f, c) {
		return false
	}
	if c.FlightNumber != nil && !strings.EqualFold(f.FlightNumber, strings.TrimSpace(*c.FlightNumber)) {
		return false
	}
	if !matchPrice(f, c) {
		return false
	}
	return matchDates(f, c)
}

func matchAirports(f *Flight, c Criteria) bool {
	if c.DepartureAirport != nil && !strings.EqualFold(f.DepartureAirport, strings.TrimSpace(*c.DepartureAirport)) {
		return false
	}
	if c.ArrivalAirport != nil && !strings.EqualFold(f.ArrivalAirport, strings.TrimSpace(*c.ArrivalAirport)) {
		return false
	}
	return true
}

func matchPrice(f *Flight, c Criteria) bool {
	if c.MinPrice != nil && f.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && f.Price > *c.MaxPrice {
		return false
	}
	return true
}

// Days compare as strings; DateLayout sorts lexically.
func matchDates(f *Flight, c Criteria) bool {
	day := f.DepartureDay()
	if c.DepartureDate != nil && day != *c.DepartureDate {
		return false
	}
	if c.StartDate != nil && day < *c.StartDate {
		return false
	}
	if c.EndDate != nil && day > *c.EndDate {
		return false
	}
	return true
}

func sortFlights(flights []Flight, field SortField, order SortOrder) {
	if field == "" {
		return
	}
	desc := order == SortDesc

	less := func(i, j int) bool {
		a, b := &flights[i], &flights[j]
		switch field {
		case SortByPrice:
			if desc {
				return a.Price > b.Price
			}
			return a.Price < b.Price
		case SortByDepartureTime:
			if desc {
				return a.DepartureTime.After(b.DepartureTime)
			}
			return a.DepartureTime.Before(b.DepartureTime)
		default:
			return false
		}
	}
	sort.SliceStable(flights, less)
}
