package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"airbook/internal/shared/constants"
	"airbook/pkg/cache"
	"airbook/pkg/logger"
)

var ErrInvalidRange = errors.New("days must be between 1 and 365")

const topFlights = 5

type Service interface {
	SetCacheService(cacheService cache.Service)

	Dashboard(ctx context.Context) (*Dashboard, error)
	FlightLoads(ctx context.Context) ([]FlightLoad, error)
	DailyBookings(ctx context.Context, days int) ([]DailyBookingStats, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	log          *logger.Logger
	now          func() time.Time
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: logger.OrDefault(log), now: time.Now}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if s.cacheService != nil {
		var cached Dashboard
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_ANALYTICS_DASHBOARD, &cached); err == nil {
			return &cached, nil
		}
	}

	loads, err := s.FlightLoads(ctx)
	if err != nil {
		return nil, err
	}
	daily, err := s.DailyBookings(ctx, 30)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountPendingUsers(ctx)
	if err != nil {
		return nil, err
	}

	overview := summarize(loads)
	overview.PendingUsers = pending

	top := make([]FlightLoad, len(loads))
	copy(top, loads)
	sortByLoad(top)
	if len(top) > topFlights {
		top = top[:topFlights]
	}

	dashboard := &Dashboard{
		Overview:    overview,
		TopFlights:  top,
		Daily:       daily,
		GeneratedAt: s.now().UTC(),
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, constants.CACHE_KEY_ANALYTICS_DASHBOARD, dashboard, constants.TTL_ANALYTICS_DASHBOARD); err != nil {
			s.log.WarnContext(ctx, "Failed to cache dashboard", "error", err.Error())
		}
	}
	return dashboard, nil
}

// FlightLoads returns every flight in departure order with its load factor filled in.
func (s *service) FlightLoads(ctx context.Context) ([]FlightLoad, error) {
	loads, err := s.repo.FlightLoads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get flight loads: %w", err)
	}
	for i := range loads {
		loads[i].Revenue = round2(loads[i].Revenue)
		loads[i].LoadFactor = percent(loads[i].SeatsSold, loads[i].TotalSeats)
	}
	return loads, nil
}

func (s *service) DailyBookings(ctx context.Context, days int) ([]DailyBookingStats, error) {
	if days < 1 || days > 365 {
		return nil, ErrInvalidRange
	}
	since := s.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))
	stats, err := s.repo.DailyBookings(ctx, since)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].Revenue = round2(stats[i].Revenue)
	}
	return stats, nil
}

func summarize(loads []FlightLoad) Overview {
	o := Overview{FlightsByStatus: map[string]int{}}
	for _, l := range loads {
		o.TotalFlights++
		o.FlightsByStatus[l.Status]++
		o.TotalBookings += l.Bookings
		o.SeatsOffered += l.TotalSeats
		o.SeatsSold += l.SeatsSold
		o.Revenue += l.Revenue
	}
	o.Revenue = round2(o.Revenue)
	o.LoadFactor = percent(o.SeatsSold, o.SeatsOffered)
	return o
}

// sortByLoad orders by load factor, fullest first, then by flight number.
func sortByLoad(loads []FlightLoad) {
	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].LoadFactor != loads[j].LoadFactor {
			return loads[i].LoadFactor > loads[j].LoadFactor
		}
		return loads[i].FlightNumber < loads[j].FlightNumber
	})
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
