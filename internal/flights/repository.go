package flights

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrFlightNotFound = errors.New("flight not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Flight, error)
	// List returns the whole catalog in creation order.
	List(ctx context.Context) ([]Flight, error)
	Create(ctx context.Context, flight *Flight) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Flight, error)
	Airports(ctx context.Context) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Flight, error) {
	var flight Flight
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&flight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return &flight, nil
}

func (r *repository) List(ctx context.Context) ([]Flight, error) {
	var flights []Flight
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&flights).Error
	return flights, err
}

func (r *repository) Create(ctx context.Context, flight *Flight) error {
	return r.db.WithContext(ctx).Create(flight).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Flight, error) {
	result := r.db.WithContext(ctx).
		Model(&Flight{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrFlightNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Airports(ctx context.Context) ([]string, error) {
	var departures, arrivals []string
	if err := r.db.WithContext(ctx).Model(&Flight{}).Distinct().Pluck("departure_airport", &departures).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&Flight{}).Distinct().Pluck("arrival_airport", &arrivals).Error; err != nil {
		return nil, err
	}
	return mergeAirports(departures, arrivals), nil
}

func mergeAirports(lists ...[]string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, list := range lists {
		for _, a := range list {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
