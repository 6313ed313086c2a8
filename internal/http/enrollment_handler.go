package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/capacity"
)

type enrollmentService interface {
	Enroll(ctx context.Context, params application.EnrollParams) (application.Enrollment, error)
	Cancel(ctx context.Context, params application.CancelParams) (application.CancelResult, error)
	GetCapacity(ctx context.Context, courseID string) (capacity.Snapshot, error)
}

// EnrollmentHandler serves enrollment commands and the capacity query.
type EnrollmentHandler struct {
	service   enrollmentService
	responder responder
}

// NewEnrollmentHandler wires the handler dependencies.
func NewEnrollmentHandler(service enrollmentService, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{service: service, responder: newResponder(logger)}
}

// Enroll handles POST /courses/{id}/enrollments.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}

	var req enrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSubjectID)
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), application.EnrollParams{
		CourseID:  courseID,
		SubjectID: req.SubjectID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, enrollmentResponse{
		ID:         enrollment.ID,
		CourseID:   enrollment.CourseID,
		SubjectID:  enrollment.SubjectID,
		EnrolledAt: enrollment.EnrolledAt.UTC().Format(time.RFC3339),
		State:      string(application.StateEnrolled),
	})
}

// Cancel handles DELETE /courses/{id}/enrollments/{subjectID}.
func (h *EnrollmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}

	subjectID, ok := SubjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(subjectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSubjectID)
		return
	}

	result, err := h.service.Cancel(r.Context(), application.CancelParams{
		CourseID:  courseID,
		SubjectID: subjectID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, cancelResponse{
		State:           string(result.State),
		AlreadyInactive: result.AlreadyInactive,
	})
}

// Capacity handles GET /courses/{id}/capacity.
func (h *EnrollmentHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.GetCapacity(r.Context(), courseID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, capacityResponse{
		EnrolledCount: snapshot.EnrolledCount,
		MaxAttendants: snapshot.MaxAttendants,
	})
}

func (h *EnrollmentHandler) courseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return "", false
	}
	courseID, ok := CourseIDFromContext(r.Context())
	if !ok || strings.TrimSpace(courseID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCourseID)
		return "", false
	}
	return courseID, true
}
