package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the course
// scheduling service.
type Config struct {
	HTTPPort            int
	SQLiteDSN           string
	DefaultTimezone     string
	CancellationWindow  time.Duration
	UpcomingOccurrences int
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; malformed values are reported by
// name rather than silently replaced.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:            8080,
		SQLiteDSN:           "file:courses.db",
		DefaultTimezone:     "UTC",
		CancellationWindow:  24 * time.Hour,
		UpcomingOccurrences: 6,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("COURSES_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "COURSES_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("COURSES_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if tz := strings.TrimSpace(os.Getenv("COURSES_DEFAULT_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "COURSES_DEFAULT_TIMEZONE")
		} else {
			cfg.DefaultTimezone = tz
		}
	}

	if windowValue := strings.TrimSpace(os.Getenv("COURSES_CANCELLATION_WINDOW")); windowValue != "" {
		window, err := time.ParseDuration(windowValue)
		if err != nil || window <= 0 {
			invalid = append(invalid, "COURSES_CANCELLATION_WINDOW")
		} else {
			cfg.CancellationWindow = window
		}
	}

	if upcomingValue := strings.TrimSpace(os.Getenv("COURSES_UPCOMING_OCCURRENCES")); upcomingValue != "" {
		upcoming, err := strconv.Atoi(upcomingValue)
		if err != nil || upcoming <= 0 {
			invalid = append(invalid, "COURSES_UPCOMING_OCCURRENCES")
		} else {
			cfg.UpcomingOccurrences = upcoming
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
