package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"airbook/internal/flights"
	"airbook/internal/seats"
	"airbook/internal/session"
	"airbook/internal/shared/constants"
	"airbook/pkg/logger"
	"airbook/pkg/retry"

	"github.com/google/uuid"
)

// FlightLookup is the part of the flight catalog the coordinator needs.
// flights.Service satisfies it.
type FlightLookup interface {
	GetFlight(ctx context.Context, id uuid.UUID) (*flights.Flight, error)
	InvalidateFlight(ctx context.Context, id uuid.UUID)
}

// Notifier is told about confirmed bookings (to avoid circular dependency
// with the notifications module).
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking, flight *flights.Flight, recipient *session.Session) error
}

// Coordinator is the only writer of seat occupancy.
type Coordinator struct {
	store    Store
	flights  FlightLookup
	locker   Locker
	retrier  *retry.Retrier
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewCoordinator(store Store, flightLookup FlightLookup, locker Locker, cfg retry.Config, log *logger.Logger) *Coordinator {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Coordinator{
		store:   store,
		flights: flightLookup,
		locker:  locker,
		retrier: retry.New(cfg),
		log:     logger.OrDefault(log),
		now:     time.Now,
	}
}

func (c *Coordinator) SetNotifier(n Notifier) {
	c.notifier = n
}

// WithClock replaces the time source used for session expiry and booking time.
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// Reserve claims requested seats on a flight for the session owner. It
// returns the new booking or an *Error whose Kind says why not.
//
// Checks run in order: session, seat list shape, flight existence, seat
// membership in the flight's seat map, flight status. The claim itself is
// all-or-nothing.
func (c *Coordinator) Reserve(ctx context.Context, sess *session.Session, flightID uuid.UUID, requested []string, payment PaymentStatus) (*Booking, error) {
	if !sess.Valid(c.now()) {
		return nil, newError(KindUnauthorized, session.ErrNoSession)
	}
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return nil, newError(KindUnauthorized, fmt.Errorf("session owner %q is not a user id", sess.UserID))
	}

	wanted, err := normalizeSeats(requested)
	if err != nil {
		return nil, newError(KindInvalidSeatRequest, err)
	}
	payment = payment.OrDefault()
	if !payment.IsValid() {
		return nil, newError(KindInvalidSeatRequest, fmt.Errorf("invalid payment status %q", payment))
	}

	flight, err := c.flights.GetFlight(ctx, flightID)
	if err != nil {
		if errors.Is(err, flights.ErrFlightNotFound) {
			return nil, newError(KindFlightUnavailable, err)
		}
		return nil, newError(KindReservationUnavailable, err)
	}
	seatMap := seats.GenerateSeatMap(flight.TotalSeats)
	for _, s := range wanted {
		if !seatMap.Contains(s) {
			return nil, newError(KindInvalidSeatRequest, fmt.Errorf("seat %s does not exist on flight %s", s, flight.FlightNumber))
		}
	}
	if flight.IsCancelled() {
		return nil, newError(KindFlightUnavailable, ErrFlightCancelled)
	}

	booking, err := c.claim(ctx, userID, flight, wanted, payment)
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) {
			if rerr.Kind == KindSeatConflict {
				c.log.LogSeatConflict(ctx, flightID.String(), sess.UserID, rerr.ConflictingSeats)
			}
			return nil, rerr
		}
		c.log.ErrorContext(ctx, "Reservation Failed", "flight_id", flightID.String(), "user_id", sess.UserID, "error", err.Error())
		return nil, newError(KindReservationUnavailable, err)
	}

	c.log.LogBookingCreated(ctx, booking.ID.String(), flightID.String(), sess.UserID, booking.Seats)
	c.flights.InvalidateFlight(ctx, flightID)
	c.notify(ctx, booking, flight, sess)
	return booking, nil
}

// claim runs the lock, load, check, commit cycle until it commits, finds a
// conflict, or runs out of attempts.
func (c *Coordinator) claim(ctx context.Context, userID uuid.UUID, flight *flights.Flight, wanted []string, payment PaymentStatus) (*Booking, error) {
	flightID := flight.ID
	retrier := c.retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		c.log.LogReservationRetry(ctx, flightID.String(), attempt, wait, err)
	})

	var booking *Booking
	err := retrier.Do(ctx, func(ctx context.Context, attempt int) error {
		unlock, err := c.locker.Lock(ctx, constants.BuildFlightLockKey(flightID.String()))
		if err != nil {
			return err
		}
		defer unlock()

		occ, err := c.store.LoadOccupancy(ctx, flightID)
		if err != nil {
			return err
		}
		if conflicts := occ.Conflicts(wanted); len(conflicts) > 0 {
			return retry.Permanent(newConflict(conflicts))
		}

		ref, err := c.generateBookingReference()
		if err != nil {
			return err
		}
		candidate := &Booking{
			UserID:        userID,
			FlightID:      flightID,
			Seats:         append([]string{}, wanted...),
			TotalPrice:    seats.Price(len(wanted), flight.Price),
			PaymentStatus: payment,
			Status:        StatusConfirmed,
			BookingRef:    ref,
			BookingTime:   c.now().UTC(),
		}

		err = c.store.Commit(ctx, &Claim{Booking: candidate, Seats: occ.With(wanted), ExpectedVersion: occ.Version})
		switch {
		case err == nil:
			booking = candidate
			return nil
		case errors.Is(err, ErrFlightCancelled), errors.Is(err, flights.ErrFlightNotFound):
			return retry.Permanent(newError(KindFlightUnavailable, err))
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (c *Coordinator) notify(ctx context.Context, booking *Booking, flight *flights.Flight, sess *session.Session) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.BookingConfirmed(ctx, booking, flight, sess); err != nil {
		c.log.WarnContext(ctx, "booking notification failed", "booking_id", booking.ID.String(), "error", err.Error())
	}
}

// normalizeSeats trims and upper-cases ids and rejects an empty list,
// malformed ids and duplicates. The result is in seat order.
func normalizeSeats(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return nil, errors.New("at least one seat is required")
	}
	seen := make(map[string]struct{}, len(requested))
	out := make([]string, 0, len(requested))
	for _, raw := range requested {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if _, _, ok := seats.ParseSeat(id); !ok {
			return nil, fmt.Errorf("malformed seat %q", raw)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("seat %s requested more than once", id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return seats.SortSeats(out), nil
}

// InitOccupancy creates the empty occupancy record of a new flight.
func (c *Coordinator) InitOccupancy(ctx context.Context, flightID uuid.UUID) error {
	return c.store.InitOccupancy(ctx, flightID)
}

// OccupiedSeats is the current occupied set of a flight in seat order.
func (c *Coordinator) OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	if _, err := c.flights.GetFlight(ctx, flightID); err != nil {
		return nil, err
	}
	occ, err := c.store.LoadOccupancy(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to load occupied seats: %w", err)
	}
	return seats.SortSeats(append([]string{}, occ.Seats...)), nil
}

func (c *Coordinator) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return c.store.GetBooking(ctx, bookingID)
}

// ListUserBookings returns the user's bookings, newest first.
func (c *Coordinator) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return c.store.ListUserBookings(ctx, userID)
}

// generateBookingReference generates a reference like AB-20250610-QXKZTR
func (c *Coordinator) generateBookingReference() (string, error) {
	timestamp := c.now().UTC().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("AB-%s-%s", timestamp, string(randomPart)), nil
}
