package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/course-scheduler/internal/application"
)

var (
	errBadRequestBody   = errors.New("invalid request body")
	errInvalidCourseID  = errors.New("invalid course id")
	errInvalidSubjectID = errors.New("invalid subject id")
	errInvalidWindow    = errors.New("invalid occurrence window")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors onto the HTTP surface.
// Expected outcomes (full, denied, duplicate) carry stable error codes so
// the UI can explain the refusal.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "resource not found"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_EXISTS",
			Message:   "a record with this identity already exists",
		})
	case errors.Is(err, application.ErrCourseFull):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "COURSE_FULL",
			Message:   "the course has no free spots",
		})
	case errors.Is(err, application.ErrAlreadyEnrolled):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_ENROLLED",
			Message:   "the subject is already enrolled in this course",
		})
	default:
		var denied *application.CancellationDeniedError
		if errors.As(err, &denied) {
			r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
				ErrorCode: "CANCELLATION_DENIED",
				Reason:    string(denied.Reason),
				Message:   cancellationMessage(denied),
			})
			return
		}

		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "invalid input",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unhandled service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func cancellationMessage(denied *application.CancellationDeniedError) string {
	switch denied.Reason {
	case "course_ended":
		return "the course has already ended"
	case "course_started":
		return "the course has already started"
	case "within_cancellation_window":
		return "the course starts too soon to cancel"
	default:
		return "cancellation is not possible"
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
