package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses the sweep interval duration
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints and
// durations for horizons and intervals.
type Config struct {
    Env               string        // application environment (e.g. "dev", "prod")
    Port              string        // HTTP port to listen on
    DBUser            string        // database username
    DBPass            string        // database password (optional)
    DBHost            string        // database host address
    DBPort            string        // database port number
    DBName            string        // database name
    JWTSecret         string        // secret used to verify access tokens
    PaymentGatewayURL string        // base URL of the payment gateway
    PaymentGatewayKey string        // secret key for the payment gateway
    RetentionDays     int           // how many days of occupancy history to keep
    SweepInterval     time.Duration // how often the retention sweeper runs
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.  Retention
// settings have defaults matching the reference behavior (30 days,
// swept daily).
func Load() Config {
    return Config{
        Env:               must("APP_ENV"),             // environment (dev/test/prod)
        Port:              must("APP_PORT"),            // port to bind the HTTP server
        DBUser:            must("DB_USER"),             // database user
        DBPass:            os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:            must("DB_HOST"),             // database host
        DBPort:            must("DB_PORT"),             // database port
        DBName:            must("DB_NAME"),             // database name
        JWTSecret:         must("JWT_SECRET"),          // secret used for verifying JWTs
        PaymentGatewayURL: must("PAYMENT_GATEWAY_URL"), // charges endpoint base URL
        PaymentGatewayKey: must("PAYMENT_GATEWAY_KEY"), // gateway secret key
        RetentionDays:     intOr("RETENTION_DAYS", 30),
        SweepInterval:     durOr("RETENTION_SWEEP_INTERVAL", 24*time.Hour),
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

// intOr converts an optional environment variable to an integer,
// returning the default when unset.  An unparsable value is fatal.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// durOr converts an optional environment variable to a time.Duration,
// returning the default when unset.  An unparsable value is fatal.
func durOr(key string, def time.Duration) time.Duration {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    d, err := time.ParseDuration(s)
    if err != nil {
        log.Fatalf("invalid duration for %s: %q", key, s)
    }
    return d
}
