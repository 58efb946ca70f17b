package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and limits.  Timing defaults follow the live-access rules: a ten minute
// grace period and a fifteen minute early-join window.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username (events/sessions are read-only here)
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to validate channel/bearer tokens
	AdminKeyHash    string // bcrypt hash of the admin key for table mutations
	BreakoutTTLMin  int    // breakout session token time-to-live in minutes
	GracePeriodMin  int    // default grace period for events without one
	EarlyJoinMin    int    // early-join window in minutes
	SnapshotPollSec int    // polling fallback cadence in seconds
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Timing knobs are
// optional and fall back to the documented defaults.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),        // environment (dev/test/prod)
		Port:            must("APP_PORT"),       // port to bind the HTTP server
		DBUser:          must("DB_USER"),        // database user
		DBPass:          os.Getenv("DB_PASS"),   // database password (empty allowed)
		DBHost:          must("DB_HOST"),        // database host
		DBPort:          must("DB_PORT"),        // database port
		DBName:          must("DB_NAME"),        // database name
		JWTSecret:       must("JWT_SECRET"),     // secret used for validating tokens
		AdminKeyHash:    must("ADMIN_KEY_HASH"), // bcrypt hash of the admin key
		BreakoutTTLMin:  intOr("BREAKOUT_TOKEN_TTL_MIN", 120),
		GracePeriodMin:  intOr("GRACE_PERIOD_MIN", 10),
		EarlyJoinMin:    intOr("EARLY_JOIN_MIN", 15),
		SnapshotPollSec: intOr("SNAPSHOT_POLL_SEC", 10),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr retrieves an optional integer environment variable, returning the
// default when the variable is unset and exiting when it is set but not a
// valid integer.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
