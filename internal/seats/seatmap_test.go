package seats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeatMap_TenSeats(t *testing.T) {
	m := GenerateSeatMap(10)

	assert.Equal(t,
		[]string{"1A", "1B", "1C", "1D", "1E", "1F", "2A", "2B", "2C", "2D"},
		m.IDs())
	assert.Equal(t, [][]string{
		{"1A", "1B", "1C", "1D", "1E", "1F"},
		{"2A", "2B", "2C", "2D"},
	}, m.Rows())
}

func TestGenerateSeatMap_Properties(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 7, 12, 150, 151} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m := GenerateSeatMap(n)
			ids := m.IDs()

			require.Len(t, ids, n)
			assert.Equal(t, ids, GenerateSeatMap(n).IDs(), "reproducible")

			seen := make(map[string]bool, n)
			for i, id := range ids {
				assert.False(t, seen[id], "duplicate %s", id)
				seen[id] = true
				assert.True(t, m.Contains(id))
				if i > 0 {
					assert.True(t, Less(ids[i-1], id), "%s before %s", ids[i-1], id)
				}
			}
		})
	}
}

func TestGenerateSeatMap_Negative(t *testing.T) {
	assert.Zero(t, GenerateSeatMap(-3).Len())
}

func TestSeatMap_Contains(t *testing.T) {
	m := GenerateSeatMap(8)

	assert.True(t, m.Contains("2B"))
	assert.False(t, m.Contains("2C"))
	assert.False(t, m.Contains("1G"))
	assert.False(t, m.Contains("01A"))
	assert.False(t, m.Contains(""))
}

func TestParseSeat(t *testing.T) {
	tests := []struct {
		in     string
		row    int
		letter byte
		ok     bool
	}{
		{"1A", 1, 'A', true},
		{"25F", 25, 'F', true},
		{"0A", 0, 0, false},
		{"07B", 0, 0, false},
		{"3G", 0, 0, false},
		{"A", 0, 0, false},
		{"-1A", 0, 0, false},
		{"1a", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			row, letter, ok := ParseSeat(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.letter, letter)
		})
	}
}

func TestSortSeats(t *testing.T) {
	got := SortSeats([]string{"10A", "2C", "bogus", "2A", "1F", "abc"})
	assert.Equal(t, []string{"1F", "2A", "2C", "10A", "abc", "bogus"}, got)
}
