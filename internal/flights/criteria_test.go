package flights

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func day(d int, hour int) time.Time { return time.Date(2025, 6, d, hour, 0, 0, 0, time.UTC) }

func testCatalog() []Flight {
	mk := func(num, from, to string, dep time.Time, price float64) Flight {
		return Flight{
			ID:               uuid.New(),
			FlightNumber:     num,
			DepartureAirport: from,
			ArrivalAirport:   to,
			DepartureTime:    dep,
			ArrivalTime:      dep.Add(time.Hour),
			Price:            price,
			TotalSeats:       150,
			AvailableSeats:   150,
			Status:           StatusOnTime,
		}
	}
	return []Flight{
		mk("AB101", "LUN", "NLA", day(10, 10), 150),
		mk("AB102", "NLA", "LUN", day(11, 14), 200),
		mk("AB201", "LUN", "LVI", day(10, 8), 99.99),
		mk("AB202", "LVI", "LUN", day(12, 16), 150),
		mk("AB301", "MFU", "LUN", day(14, 9), 100),
		mk("AB302", "LUN", "MFU", day(14, 23), 250),
	}
}

func numbers(flights []Flight) []string {
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.FlightNumber)
	}
	return out
}

func TestSearch_PriceRangeSortedDescStable(t *testing.T) {
	got := Search(testCatalog(), Criteria{
		MinPrice:  floatPtr(100),
		MaxPrice:  floatPtr(200),
		SortBy:    SortByPrice,
		SortOrder: SortDesc,
	})

	// AB101 and AB202 tie at 150 and keep catalog order
	assert.Equal(t, []string{"AB102", "AB101", "AB202", "AB301"}, numbers(got))
	for _, f := range got {
		assert.GreaterOrEqual(t, f.Price, 100.0)
		assert.LessOrEqual(t, f.Price, 200.0)
	}
}

func TestSearch_Filters(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "no criteria returns catalog",
			criteria: Criteria{},
			want:     []string{"AB101", "AB102", "AB201", "AB202", "AB301", "AB302"},
		},
		{
			name:     "departure airport exact, case-insensitive",
			criteria: Criteria{DepartureAirport: strPtr("lun")},
			want:     []string{"AB101", "AB201", "AB302"},
		},
		{
			name:     "airport substring does not match",
			criteria: Criteria{DepartureAirport: strPtr("LU")},
			want:     []string{},
		},
		{
			name:     "departure and arrival combined with AND",
			criteria: Criteria{DepartureAirport: strPtr("LUN"), ArrivalAirport: strPtr("MFU")},
			want:     []string{"AB302"},
		},
		{
			name:     "departure date calendar day",
			criteria: Criteria{DepartureDate: strPtr("2025-06-10")},
			want:     []string{"AB101", "AB201"},
		},
		{
			name:     "date range inclusive",
			criteria: Criteria{StartDate: strPtr("2025-06-11"), EndDate: strPtr("2025-06-12")},
			want:     []string{"AB102", "AB202"},
		},
		{
			name:     "late departure stays on its day",
			criteria: Criteria{StartDate: strPtr("2025-06-14"), EndDate: strPtr("2025-06-14")},
			want:     []string{"AB301", "AB302"},
		},
		{
			name:     "flight number exact, case-insensitive",
			criteria: Criteria{FlightNumber: strPtr("ab202")},
			want:     []string{"AB202"},
		},
		{
			name:     "flight number prefix does not match",
			criteria: Criteria{FlightNumber: strPtr("AB2")},
			want:     []string{},
		},
		{
			name:     "min price inclusive",
			criteria: Criteria{MinPrice: floatPtr(200)},
			want:     []string{"AB102", "AB302"},
		},
		{
			name:     "empty result is reported as empty",
			criteria: Criteria{MinPrice: floatPtr(1000)},
			want:     []string{},
		},
		{
			name:     "sort by departure time ascending",
			criteria: Criteria{ArrivalAirport: strPtr("LUN"), SortBy: SortByDepartureTime},
			want:     []string{"AB102", "AB202", "AB301"},
		},
		{
			name:     "sort by departure time descending",
			criteria: Criteria{DepartureAirport: strPtr("LUN"), SortBy: SortByDepartureTime, SortOrder: SortDesc},
			want:     []string{"AB302", "AB101", "AB201"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(testCatalog(), tt.criteria)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, numbers(got))
		})
	}
}

func TestSearch_DoesNotModifyCatalog(t *testing.T) {
	catalog := testCatalog()
	before := numbers(catalog)

	Search(catalog, Criteria{SortBy: SortByPrice, SortOrder: SortDesc})

	assert.Equal(t, before, numbers(catalog))
}

func TestCriteria_IsZero(t *testing.T) {
	assert.True(t, Criteria{}.IsZero())
	assert.True(t, Criteria{SortOrder: SortDesc}.IsZero())
	assert.False(t, Criteria{MaxPrice: floatPtr(1)}.IsZero())
	assert.False(t, Criteria{SortBy: SortByPrice}.IsZero())
}
