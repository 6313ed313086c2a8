package http

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	courseIDContextKey  contextKey = "course_id"
	subjectIDContextKey contextKey = "subject_id"
	loggerContextKey    contextKey = "logger"
)

// ContextWithCourseID injects the course identifier resolved from the
// request path.
func ContextWithCourseID(ctx context.Context, courseID string) context.Context {
	return context.WithValue(ctx, courseIDContextKey, courseID)
}

// CourseIDFromContext extracts a course identifier previously associated
// with the context.
func CourseIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(courseIDContextKey).(string)
	return id, ok
}

// ContextWithSubjectID injects the subject identifier resolved from the
// request path.
func ContextWithSubjectID(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectIDContextKey, subjectID)
}

// SubjectIDFromContext extracts a subject identifier previously associated
// with the context.
func SubjectIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// LoggerFromContext extracts a request scoped logger if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(loggerContextKey).(*slog.Logger)
	return logger
}
