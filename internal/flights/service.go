package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airbook/internal/shared/constants"
	"airbook/pkg/cache"
	"airbook/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetOccupancyInitializer(init OccupancyInitializer)

	Search(ctx context.Context, criteria Criteria) ([]Flight, error)
	ListFlights(ctx context.Context) ([]Flight, error)
	GetFlight(ctx context.Context, id uuid.UUID) (*Flight, error)
	Airports(ctx context.Context) ([]string, error)

	CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Flight, error)

	// InvalidateFlight drops cached copies after available_seats or status changed.
	InvalidateFlight(ctx context.Context, id uuid.UUID)
}

// OccupancyInitializer creates the empty occupancy record of a new flight.
// Set by the reservations module to avoid a circular import.
type OccupancyInitializer interface {
	InitOccupancy(ctx context.Context, flightID uuid.UUID) error
}

type service struct {
	repo         Repository
	cacheService cache.Service
	occupancy    OccupancyInitializer
	log          *logger.Logger
	group        singleflight.Group
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: logger.OrDefault(log)}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetOccupancyInitializer(init OccupancyInitializer) {
	s.occupancy = init
}

func (s *service) Search(ctx context.Context, criteria Criteria) ([]Flight, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return Search(catalog, criteria), nil
}

func (s *service) ListFlights(ctx context.Context) ([]Flight, error) {
	return s.catalog(ctx)
}

// catalog reads the full flight list through the cache. Concurrent misses
// share one database query.
func (s *service) catalog(ctx context.Context) ([]Flight, error) {
	var cached []Flight
	if err := s.getCache(ctx, constants.CACHE_KEY_FLIGHT_CATALOG, &cached); err == nil {
		return cached, nil
	}

	v, err, _ := s.group.Do(constants.CACHE_KEY_FLIGHT_CATALOG, func() (interface{}, error) {
		flights, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list flights: %w", err)
		}
		s.setCache(ctx, constants.CACHE_KEY_FLIGHT_CATALOG, flights, constants.TTL_FLIGHT_CATALOG)
		return flights, nil
	})
	if err != nil {
		return nil, err
	}
	// callers sort their results in place
	shared := v.([]Flight)
	out := make([]Flight, len(shared))
	copy(out, shared)
	return out, nil
}

func (s *service) GetFlight(ctx context.Context, id uuid.UUID) (*Flight, error) {
	key := constants.BuildFlightDetailKey(id.String())

	var cached Flight
	if err := s.getCache(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		flight, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		s.setCache(ctx, key, flight, constants.TTL_FLIGHT_DETAIL)
		return flight, nil
	})
	if err != nil {
		return nil, err
	}
	flight := *v.(*Flight)
	return &flight, nil
}

func (s *service) Airports(ctx context.Context) ([]string, error) {
	var cached []string
	if err := s.getCache(ctx, constants.CACHE_KEY_AIRPORTS, &cached); err == nil {
		return cached, nil
	}

	airports, err := s.repo.Airports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list airports: %w", err)
	}
	s.setCache(ctx, constants.CACHE_KEY_AIRPORTS, airports, constants.TTL_AIRPORTS)
	return airports, nil
}

func (s *service) CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error) {
	status := StatusOnTime
	if req.Status != "" {
		status = Status(req.Status)
	}

	flight := &Flight{
		FlightNumber:     req.FlightNumber,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		DepartureTime:    req.DepartureTime.UTC(),
		ArrivalTime:      req.ArrivalTime.UTC(),
		Price:            req.Price,
		TotalSeats:       req.TotalSeats,
		AvailableSeats:   req.TotalSeats,
		Status:           status,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	if s.occupancy != nil {
		if err := s.occupancy.InitOccupancy(ctx, flight.ID); err != nil {
			return nil, fmt.Errorf("failed to initialise seat occupancy: %w", err)
		}
	}

	s.invalidateAll(ctx)
	s.log.InfoContext(ctx, "Flight Created", "flight_id", flight.ID.String(), "flight_number", flight.FlightNumber)
	return flight, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Flight, error) {
	if !IsValidStatus(string(status)) {
		return nil, fmt.Errorf("invalid flight status %q", status)
	}
	flight, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrFlightNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update flight status: %w", err)
	}
	s.InvalidateFlight(ctx, id)
	return flight, nil
}

func (s *service) InvalidateFlight(ctx context.Context, id uuid.UUID) {
	s.deleteCache(ctx, constants.BuildFlightDetailKey(id.String()), constants.CACHE_KEY_FLIGHT_CATALOG)
}

func (s *service) invalidateAll(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_FLIGHTS_ALL); err != nil {
		s.log.WarnContext(ctx, "flight cache invalidation failed", "error", err.Error())
	}
}

// Cache helpers. Cache failures never fail a request.

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		s.log.WarnContext(ctx, "flight cache set failed", "key", key, "error", err.Error())
	}
}

func (s *service) deleteCache(ctx context.Context, keys ...string) {
	if s.cacheService == nil {
		return
	}
	for _, key := range keys {
		if err := s.cacheService.Delete(ctx, key); err != nil {
			s.log.WarnContext(ctx, "flight cache delete failed", "key", key, "error", err.Error())
		}
	}
}
