package seats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Toggle(t *testing.T) {
	sel := NewSelection("flight-1")
	occupied := NewOccupiedSet("1B")

	assert.Equal(t, []string{"2A"}, sel.Toggle("2A", occupied))
	assert.Equal(t, []string{"1A", "2A"}, sel.Toggle("1A", occupied))
	assert.Equal(t, []string{"10C", "1A", "2A"}, sel.Toggle("10C", occupied))
	assert.Equal(t, []string{"10C", "1A"}, sel.Toggle("2A", occupied))
}

func TestSelection_IdentifierOrder(t *testing.T) {
	tests := []struct {
		name   string
		toggle []string
		want   []string
	}{
		{"single digit rows", []string{"1C", "1A", "1B"}, []string{"1A", "1B", "1C"}},
		{"double digit row before single", []string{"2A", "10A"}, []string{"10A", "2A"}},
		{"insertion order ignored", []string{"12F", "3B", "1D", "11A"}, []string{"11A", "12F", "1D", "3B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelection("f")
			var got []string
			for _, id := range tt.toggle {
				got = sel.Toggle(id, nil)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, sel.Seats())
		})
	}
}

func TestSelection_ToggleOccupiedIsNoop(t *testing.T) {
	selections := [][]string{{}, {"1A"}, {"1A", "3C", "4F"}}
	occupiedSets := []OccupiedSet{NewOccupiedSet("1B"), NewOccupiedSet("1A", "1B"), NewOccupiedSet("1B", "3C")}

	for _, initial := range selections {
		for _, occupied := range occupiedSets {
			sel := NewSelection("f")
			for _, id := range initial {
				sel.Toggle(id, nil)
			}
			before := sel.Seats()

			after := sel.Toggle("1B", occupied)

			assert.Equal(t, before, after)
		}
	}
}

func TestSelection_ClearAndSwitch(t *testing.T) {
	sel := NewSelection("f-1")
	sel.Toggle("1A", nil)
	sel.Toggle("1B", nil)

	sel.Clear()
	assert.Empty(t, sel.Seats())
	assert.Equal(t, "f-1", sel.FlightID())

	sel.Toggle("1C", nil)
	sel.SwitchFlight("f-2")
	assert.Empty(t, sel.Seats())
	assert.Equal(t, "f-2", sel.FlightID())
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		count int
		unit  float64
		want  float64
	}{
		{"empty selection", 0, 1200, 0},
		{"whole amount", 3, 1200, 3600},
		{"cents", 2, 99.99, 199.98},
		{"half rounds up", 1, 2.675, 2.68},
		{"half rounds up after multiply", 3, 0.005, 0.02},
		{"below half rounds down", 1, 10.004, 10.00},
		{"binary-unfriendly sum", 3, 0.1, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Price(tt.count, tt.unit))
		})
	}
}

func TestSelection_Price(t *testing.T) {
	sel := NewSelection("f")
	sel.Toggle("1A", nil)
	sel.Toggle("1B", nil)

	assert.Equal(t, 2401.0, sel.Price(1200.50))
}
