package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"airbook/internal/bookings"
	"airbook/internal/flights"
	"airbook/internal/shared/config"
	"airbook/internal/shared/constants"
	"airbook/internal/shared/database"
	"airbook/internal/users"
	"airbook/pkg/cache"
	"airbook/pkg/logger"
	"airbook/pkg/retry"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db      *database.DB
	flights flights.Service
	log     *logger.Logger
	now     time.Time
}

func main() {
	fmt.Println("🌱 Starting AirBooking Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()
	appLogger := logger.New()

	db, err := database.InitDB(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	flightService := flights.NewService(flights.NewRepository(db.PostgreSQL), appLogger)
	coordinator := bookings.NewCoordinator(bookings.NewGormStore(db.PostgreSQL), flightService, bookings.NewLocalLocker(), retry.DefaultConfig(), appLogger)
	flightService.SetOccupancyInitializer(coordinator)

	seeder := &Seeder{db: db, flights: flightService, log: appLogger, now: time.Now().UTC()}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates every airbook table, children first.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"booking_seats",
		"bookings",
		"flight_occupancy",
		"flights",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit().Error
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.SeedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.SeedFlights(ctx); err != nil {
		return fmt.Errorf("failed to seed flights: %w", err)
	}

	if s.db.Redis != nil {
		if err := cache.NewService(s.db.Redis).DeletePattern(ctx, constants.CACHE_PREFIX+":*"); err != nil {
			s.log.Warn("Failed to clear Redis cache", "error", err.Error())
		}
	}
	return nil
}

// SeedUsers creates an admin, two approved travellers and one account
// awaiting approval. Every password is "qwerty123".
func (s *Seeder) SeedUsers(ctx context.Context) error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	repo := users.NewRepository(s.db.PostgreSQL)
	usersData := []struct {
		username  string
		firstName string
		lastName  string
		email     string
		admin     bool
		status    users.ApprovalStatus
	}{
		{"admin", "Admin", "User", "admin@airbook.local", true, users.ApprovalApproved},
		{"chanda", "Chanda", "Mwale", "chanda@airbook.local", false, users.ApprovalApproved},
		{"natasha", "Natasha", "Banda", "natasha@airbook.local", false, users.ApprovalApproved},
		{"mulenga", "Mulenga", "Phiri", "mulenga@airbook.local", false, users.ApprovalPending},
	}

	for _, u := range usersData {
		user := &users.User{
			Username:       u.username,
			Email:          u.email,
			FirstName:      u.firstName,
			LastName:       u.lastName,
			Password:       string(hashedPassword),
			IsAdmin:        u.admin,
			ApprovalStatus: u.status,
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.username, err)
		}
		fmt.Printf("    ✅ Created user: %s (%s, admin=%t)\n", user.Username, user.ApprovalStatus, user.IsAdmin)
	}
	return nil
}

// SeedFlights loads the sample Zambian routes relative to now.
func (s *Seeder) SeedFlights(ctx context.Context) error {
	fmt.Println("  ✈️  Seeding flights...")

	const (
		lusaka      = "Lusaka International Airport (LUN)"
		copperbelt  = "Copperbelt International Airport (NLA)"
		livingstone = "Livingstone (Harry Mwanga Nkumbula) (LVI)"
		mfuwe       = "Mfuwe Airport (MFU)"
	)
	day := 24 * time.Hour

	flightsData := []struct {
		number   string
		from, to string
		depart   time.Duration
		duration time.Duration
		price    float64
	}{
		{"AB101", lusaka, copperbelt, day + 10*time.Hour, time.Hour, 1200},
		{"AB102", copperbelt, lusaka, 2*day + 14*time.Hour, time.Hour, 1150},
		{"AB201", lusaka, livingstone, day + 8*time.Hour, time.Hour, 1500},
		{"AB202", livingstone, lusaka, 3*day + 16*time.Hour, time.Hour, 1450},
		{"AB301", mfuwe, lusaka, 5*day + 9*time.Hour, 90 * time.Minute, 1800},
	}

	for _, f := range flightsData {
		departure := s.now.Add(f.depart)
		flight, err := s.flights.CreateFlight(ctx, flights.CreateFlightRequest{
			FlightNumber:     f.number,
			DepartureAirport: f.from,
			ArrivalAirport:   f.to,
			DepartureTime:    departure,
			ArrivalTime:      departure.Add(f.duration),
			Price:            f.price,
			TotalSeats:       150,
		})
		if err != nil {
			return fmt.Errorf("failed to create flight %s: %w", f.number, err)
		}
		fmt.Printf("    ✅ Created flight: %s %s -> %s (%d seats)\n", flight.FlightNumber, f.from, f.to, flight.TotalSeats)
	}
	return nil
}
