package config

import (
	"strings"
	"testing"
	"time"
)

func clearCourseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COURSES_HTTP_PORT",
		"COURSES_SQLITE_DSN",
		"COURSES_DEFAULT_TIMEZONE",
		"COURSES_CANCELLATION_WINDOW",
		"COURSES_UPCOMING_OCCURRENCES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearCourseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:courses.db" {
		t.Fatalf("unexpected default DSN %q", cfg.SQLiteDSN)
	}
	if cfg.DefaultTimezone != "UTC" {
		t.Fatalf("unexpected default timezone %q", cfg.DefaultTimezone)
	}
	if cfg.CancellationWindow != 24*time.Hour {
		t.Fatalf("unexpected default window %v", cfg.CancellationWindow)
	}
	if cfg.UpcomingOccurrences != 6 {
		t.Fatalf("unexpected default upcoming count %d", cfg.UpcomingOccurrences)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearCourseEnv(t)
	t.Setenv("COURSES_HTTP_PORT", "9090")
	t.Setenv("COURSES_SQLITE_DSN", "file:test.db?mode=memory")
	t.Setenv("COURSES_DEFAULT_TIMEZONE", "Europe/Berlin")
	t.Setenv("COURSES_CANCELLATION_WINDOW", "48h")
	t.Setenv("COURSES_UPCOMING_OCCURRENCES", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}

	if cfg.HTTPPort != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:test.db?mode=memory" {
		t.Fatalf("unexpected DSN %q", cfg.SQLiteDSN)
	}
	if cfg.DefaultTimezone != "Europe/Berlin" {
		t.Fatalf("unexpected timezone %q", cfg.DefaultTimezone)
	}
	if cfg.CancellationWindow != 48*time.Hour {
		t.Fatalf("unexpected window %v", cfg.CancellationWindow)
	}
	if cfg.UpcomingOccurrences != 10 {
		t.Fatalf("unexpected upcoming count %d", cfg.UpcomingOccurrences)
	}
}

func TestLoadReportsInvalidValuesByName(t *testing.T) {
	clearCourseEnv(t)
	t.Setenv("COURSES_HTTP_PORT", "not-a-port")
	t.Setenv("COURSES_CANCELLATION_WINDOW", "-1h")
	t.Setenv("COURSES_DEFAULT_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, name := range []string{"COURSES_HTTP_PORT", "COURSES_CANCELLATION_WINDOW", "COURSES_DEFAULT_TIMEZONE"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("expected %s in error, got %v", name, err)
		}
	}
}
