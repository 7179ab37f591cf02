package seats

import "airbook/internal/flights"

type SeatState struct {
	Seat     string `json:"seat"`
	Occupied bool   `json:"occupied"`
}

type SeatMapResponse struct {
	FlightID     string        `json:"flight_id"`
	FlightNumber string        `json:"flight_number"`
	TotalSeats   int           `json:"total_seats"`
	UnitPrice    float64       `json:"unit_price"`
	Letters      string        `json:"letters"`
	Rows         [][]SeatState `json:"rows"`
	Occupied     []string      `json:"occupied"`
}

type QuoteResponse struct {
	FlightID    string   `json:"flight_id"`
	Seats       []string `json:"seats"`
	Unavailable []string `json:"unavailable"`
	UnitPrice   float64  `json:"unit_price"`
	TotalPrice  float64  `json:"total_price"`
}

func newSeatMapResponse(f *flights.Flight, m SeatMap, occupiedIDs []string) *SeatMapResponse {
	occupied := NewOccupiedSet(occupiedIDs...)
	rows := make([][]SeatState, 0, len(m.Rows()))
	for _, row := range m.Rows() {
		states := make([]SeatState, 0, len(row))
		for _, id := range row {
			states = append(states, SeatState{Seat: id, Occupied: occupied.Has(id)})
		}
		rows = append(rows, states)
	}
	return &SeatMapResponse{
		FlightID:     f.ID.String(),
		FlightNumber: f.FlightNumber,
		TotalSeats:   f.TotalSeats,
		UnitPrice:    f.Price,
		Letters:      Letters,
		Rows:         rows,
		Occupied:     SortSeats(append([]string{}, occupiedIDs...)),
	}
}
