package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"airbook/internal/flights"

	"github.com/google/uuid"
)

// MemoryStore keeps flights, occupancy and bookings in process memory. It
// also serves as the flight source of a coordinator, so a single value is
// enough to run reservations without Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	flights   map[uuid.UUID]*flights.Flight
	occupancy map[uuid.UUID]*Occupancy
	bookings  map[uuid.UUID]*Booking
	order     []uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flights:   make(map[uuid.UUID]*flights.Flight),
		occupancy: make(map[uuid.UUID]*Occupancy),
		bookings:  make(map[uuid.UUID]*Booking),
	}
}

// AddFlight registers f with an empty occupancy. A zero ID is replaced.
func (m *MemoryStore) AddFlight(f flights.Flight) flights.Flight {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	m.flights[f.ID] = &f
	m.occupancy[f.ID] = &Occupancy{FlightID: f.ID, Seats: []string{}}
	return f
}

func (m *MemoryStore) SetFlightStatus(id uuid.UUID, status flights.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.flights[id]; ok {
		f.Status = status
	}
}

func (m *MemoryStore) GetFlight(_ context.Context, id uuid.UUID) (*flights.Flight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flights[id]
	if !ok {
		return nil, flights.ErrFlightNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *MemoryStore) InvalidateFlight(context.Context, uuid.UUID) {}

func (m *MemoryStore) LoadOccupancy(_ context.Context, flightID uuid.UUID) (*Occupancy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	occ, ok := m.occupancy[flightID]
	if !ok {
		return &Occupancy{FlightID: flightID, Seats: []string{}}, nil
	}
	cp := *occ
	cp.Seats = append([]string{}, occ.Seats...)
	return &cp, nil
}

func (m *MemoryStore) Commit(_ context.Context, claim *Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := claim.Booking
	f, ok := m.flights[b.FlightID]
	if !ok {
		return flights.ErrFlightNotFound
	}
	if f.IsCancelled() {
		return ErrFlightCancelled
	}

	occ, ok := m.occupancy[b.FlightID]
	if !ok {
		occ = &Occupancy{FlightID: b.FlightID}
		m.occupancy[b.FlightID] = occ
	}
	if occ.Version != claim.ExpectedVersion {
		return ErrStaleVersion
	}

	now := time.Now()
	occ.Seats = append([]string{}, claim.Seats...)
	occ.Version++
	occ.UpdatedAt = now

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt, b.UpdatedAt = now, now
	stored := *b
	stored.Seats = append([]string{}, b.Seats...)
	m.bookings[b.ID] = &stored
	m.order = append(m.order, b.ID)

	f.AvailableSeats -= len(b.Seats)
	return nil
}

func (m *MemoryStore) InitOccupancy(_ context.Context, flightID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.occupancy[flightID]; !ok {
		m.occupancy[flightID] = &Occupancy{FlightID: flightID, Seats: []string{}}
	}
	return nil
}

func (m *MemoryStore) GetBooking(_ context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) ListUserBookings(_ context.Context, userID uuid.UUID) ([]Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Booking{}
	for _, id := range m.order {
		if b := m.bookings[id]; b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookingTime.After(out[j].BookingTime) })
	return out, nil
}

// Bookings returns every stored booking of a flight in commit order.
func (m *MemoryStore) Bookings(flightID uuid.UUID) []Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Booking
	for _, id := range m.order {
		if b := m.bookings[id]; b.FlightID == flightID {
			out = append(out, *b)
		}
	}
	return out
}
