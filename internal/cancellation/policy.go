// Package cancellation decides whether an enrollment may still be
// cancelled. It is pure: the caller supplies "now", the policy never reads
// the system clock.
package cancellation

import "time"

// Reason explains why cancellation was denied.
type Reason string

const (
	// ReasonCourseEnded denies cancellation after the course has finished.
	ReasonCourseEnded Reason = "course_ended"
	// ReasonCourseStarted denies cancellation once the course has begun.
	ReasonCourseStarted Reason = "course_started"
	// ReasonWithinWindow denies cancellation inside the blackout window
	// immediately before the course starts.
	ReasonWithinWindow Reason = "within_cancellation_window"
)

// DefaultWindow is the blackout period before the course start during which
// cancellation is disallowed.
const DefaultWindow = 24 * time.Hour

// Decision is the outcome of a cancellation check. Reason is set only when
// Allowed is false.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Decide evaluates the cancellation rules in order, first match wins:
// course ended, course started, within the blackout window, otherwise
// allowed. A zero courseEnd means the end is unknown and the ended rule is
// skipped. A non-positive window falls back to DefaultWindow.
func Decide(now, courseStart, courseEnd time.Time, window time.Duration) Decision {
	if window <= 0 {
		window = DefaultWindow
	}

	if !courseEnd.IsZero() && courseEnd.Before(now) {
		return Decision{Reason: ReasonCourseEnded}
	}
	if !courseStart.After(now) {
		return Decision{Reason: ReasonCourseStarted}
	}
	if courseStart.Sub(now) <= window {
		return Decision{Reason: ReasonWithinWindow}
	}
	return Decision{Allowed: true}
}
