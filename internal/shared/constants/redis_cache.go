package constants

import (
	"time"
)

// Redis keys for the AirBook service.
// Pattern: airbook:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG     = 24 * time.Hour   // airports
	TTL_SEMI_STATIC     = 15 * time.Minute // flight catalog
	TTL_DYNAMIC_QUICK   = 2 * time.Minute  // flight detail incl. available seats
	TTL_REALTIME_MEDIUM = 1 * time.Minute  // user bookings
)

const (
	CACHE_PREFIX = "airbook"
)

// ================== FLIGHTS MODULE ==================

const (
	CACHE_KEY_FLIGHT_CATALOG = CACHE_PREFIX + ":flights:catalog"
	CACHE_KEY_FLIGHT_DETAIL  = CACHE_PREFIX + ":flights:detail:uuid:" // + flight-id
	CACHE_KEY_AIRPORTS       = CACHE_PREFIX + ":flights:airports"
)

const (
	TTL_FLIGHT_CATALOG = TTL_SEMI_STATIC
	TTL_FLIGHT_DETAIL  = TTL_DYNAMIC_QUICK
	TTL_AIRPORTS       = TTL_STATIC_LONG
)

// ================== RESERVATIONS MODULE ==================

const (
	CACHE_KEY_USER_BOOKINGS = CACHE_PREFIX + ":bookings:user:uuid:" // + user-id
	LOCK_KEY_FLIGHT_CLAIM   = CACHE_PREFIX + ":lock:flight:"        // + flight-id
)

const (
	TTL_USER_BOOKINGS = TTL_REALTIME_MEDIUM
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_DASHBOARD = CACHE_PREFIX + ":analytics:dashboard"
)

const (
	TTL_ANALYTICS_DASHBOARD = 5 * time.Minute
)

// ================== RATE LIMIT ==================

const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit:" // + ip:type
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_FLIGHTS_ALL = CACHE_PREFIX + ":flights:*"
)

func BuildFlightDetailKey(flightID string) string {
	return CACHE_KEY_FLIGHT_DETAIL + flightID
}

func BuildUserBookingsKey(userID string) string {
	return CACHE_KEY_USER_BOOKINGS + userID
}

func BuildFlightLockKey(flightID string) string {
	return LOCK_KEY_FLIGHT_CLAIM + flightID
}
