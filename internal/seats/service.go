package seats

import (
	"context"
	"errors"
	"fmt"

	"airbook/internal/flights"

	"github.com/google/uuid"
)

var ErrUnknownSeat = errors.New("seat does not exist on this flight")

// FlightSource resolves the flight a seat map is drawn for.
type FlightSource interface {
	GetFlight(ctx context.Context, id uuid.UUID) (*flights.Flight, error)
}

// OccupancySource reports the occupied seats of a flight (implemented by the
// reservation coordinator to avoid a circular import).
type OccupancySource interface {
	OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)
}

type Service interface {
	SeatMap(ctx context.Context, flightID uuid.UUID) (*SeatMapResponse, error)
	OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)
	Quote(ctx context.Context, flightID uuid.UUID, req QuoteRequest) (*QuoteResponse, error)
}

type service struct {
	flights   FlightSource
	occupancy OccupancySource
}

func NewService(flightSource FlightSource, occupancy OccupancySource) Service {
	return &service{flights: flightSource, occupancy: occupancy}
}

func (s *service) SeatMap(ctx context.Context, flightID uuid.UUID) (*SeatMapResponse, error) {
	flight, occupied, err := s.load(ctx, flightID)
	if err != nil {
		return nil, err
	}
	return newSeatMapResponse(flight, GenerateSeatMap(flight.TotalSeats), occupied), nil
}

func (s *service) OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	return s.occupancy.OccupiedSeats(ctx, flightID)
}

// Quote replays a client's selection against live occupancy and prices it.
// Seats that were taken since the client last looked are dropped and
// reported; toggling an occupied seat leaves the selection unchanged.
func (s *service) Quote(ctx context.Context, flightID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	flight, occupiedIDs, err := s.load(ctx, flightID)
	if err != nil {
		return nil, err
	}
	seatMap := GenerateSeatMap(flight.TotalSeats)
	occupied := NewOccupiedSet(occupiedIDs...)

	sel := NewSelection(flightID.String())
	seen := make(map[string]struct{}, len(req.Seats))
	unavailable := []string{}
	for _, id := range req.Seats {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !seatMap.Contains(id) || occupied.Has(id) {
			unavailable = append(unavailable, id)
			continue
		}
		sel.Toggle(id, occupied)
	}

	if req.Toggle != "" {
		if !seatMap.Contains(req.Toggle) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSeat, req.Toggle)
		}
		sel.Toggle(req.Toggle, occupied)
	}

	return &QuoteResponse{
		FlightID:    flightID.String(),
		Seats:       sel.Seats(),
		Unavailable: SortSeats(unavailable),
		UnitPrice:   flight.Price,
		TotalPrice:  sel.Price(flight.Price),
	}, nil
}

func (s *service) load(ctx context.Context, flightID uuid.UUID) (*flights.Flight, []string, error) {
	flight, err := s.flights.GetFlight(ctx, flightID)
	if err != nil {
		return nil, nil, err
	}
	occupied, err := s.occupancy.OccupiedSeats(ctx, flightID)
	if err != nil {
		return nil, nil, err
	}
	return flight, occupied, nil
}
