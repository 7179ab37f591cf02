package seats

import (
	"math/big"
	"sort"
	"strconv"
	"sync"
)

// OccupiedSet is a snapshot of seats already claimed on a flight.
type OccupiedSet map[string]struct{}

func NewOccupiedSet(ids ...string) OccupiedSet {
	set := make(OccupiedSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (o OccupiedSet) Has(id string) bool {
	_, ok := o[id]
	return ok
}

// Selection is the provisional seat choice of one viewer for one flight.
// It carries no claim; the reservation coordinator re-validates it on submit.
type Selection struct {
	mu       sync.Mutex
	flightID string
	seats    map[string]struct{}
}

func NewSelection(flightID string) *Selection {
	return &Selection{flightID: flightID, seats: make(map[string]struct{})}
}

func (s *Selection) FlightID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flightID
}

// Toggle adds or removes seat. Occupied seats are never selectable, so the
// call is a no-op for them. The result is in ascending identifier order.
func (s *Selection) Toggle(seat string, occupied OccupiedSet) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !occupied.Has(seat) {
		if _, ok := s.seats[seat]; ok {
			delete(s.seats, seat)
		} else {
			s.seats[seat] = struct{}{}
		}
	}
	return s.sortedLocked()
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seats = make(map[string]struct{})
}

// SwitchFlight clears the selection and binds it to another flight.
func (s *Selection) SwitchFlight(flightID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flightID = flightID
	s.seats = make(map[string]struct{})
}

// Seats returns the current selection in ascending identifier order, so
// "10A" sorts before "2A".
func (s *Selection) Seats() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seats)
}

// Price is len(selection) * unitPrice rounded half-up to cents.
func (s *Selection) Price(unitPrice float64) float64 {
	return Price(s.Len(), unitPrice)
}

func (s *Selection) sortedLocked() []string {
	out := make([]string, 0, len(s.seats))
	for id := range s.seats {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Price multiplies in exact decimal arithmetic and rounds half-up to 2 places.
func Price(count int, unitPrice float64) float64 {
	unit, ok := new(big.Rat).SetString(strconv.FormatFloat(unitPrice, 'f', -1, 64))
	if !ok {
		return 0
	}
	total := new(big.Rat).Mul(unit, new(big.Rat).SetInt64(int64(count)))
	f, _ := roundHalfUp(total, 2).Float64()
	return f
}

// roundHalfUp rounds away from zero on an exact half.
func roundHalfUp(v *big.Rat, places int) *big.Rat {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	scaled := new(big.Rat).Mul(v, new(big.Rat).SetInt(scale))

	neg := scaled.Sign() < 0
	if neg {
		scaled.Neg(scaled)
	}
	scaled.Add(scaled, big.NewRat(1, 2))
	q := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	if neg {
		q.Neg(q)
	}
	return new(big.Rat).SetFrac(q, scale)
}
