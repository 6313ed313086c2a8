package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/schedule"
)

type courseService interface {
	CreateCourse(ctx context.Context, input application.CourseInput) (application.Course, error)
	GetCourse(ctx context.Context, id string) (application.Course, error)
	UpdateCourse(ctx context.Context, courseID string, input application.CourseInput) (application.Course, error)
	ListCourses(ctx context.Context) ([]application.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
}

type scheduleQueryService interface {
	DescribeCourse(ctx context.Context, courseID string) (schedule.Summary, error)
	ListOccurrences(ctx context.Context, query application.OccurrenceQuery) ([]recurrence.Occurrence, error)
}

// CourseHandler serves course CRUD and schedule query endpoints.
type CourseHandler struct {
	courses   courseService
	schedules scheduleQueryService
	responder responder
}

// NewCourseHandler wires the handler dependencies.
func NewCourseHandler(courses courseService, schedules scheduleQueryService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, schedules: schedules, responder: newResponder(logger)}
}

// Create handles POST /courses.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.courses == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	course, err := h.courses.CreateCourse(r.Context(), input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCourseResponse(course))
}

// Get handles GET /courses/{id}.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}

	course, err := h.courses.GetCourse(r.Context(), courseID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCourseResponse(course))
}

// List handles GET /courses.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.courses == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	courses, err := h.courses.ListCourses(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	responses := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, toCourseResponse(course))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, responses)
}

// Update handles PUT /courses/{id}.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	course, err := h.courses.UpdateCourse(r.Context(), courseID, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCourseResponse(course))
}

// Delete handles DELETE /courses/{id}.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}

	if err := h.courses.DeleteCourse(r.Context(), courseID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Describe handles GET /courses/{id}/schedule.
func (h *CourseHandler) Describe(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	if h.schedules == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	summary, err := h.schedules.DescribeCourse(r.Context(), courseID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toScheduleResponse(summary))
}

// Occurrences handles GET /courses/{id}/occurrences.
func (h *CourseHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.courseID(w, r)
	if !ok {
		return
	}
	if h.schedules == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := application.OccurrenceQuery{CourseID: courseID}

	params := r.URL.Query()
	if from := strings.TrimSpace(params.Get("from")); from != "" {
		parsed, err := time.Parse(wireDateLayout, from)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWindow)
			return
		}
		query.From = parsed
	}
	if until := strings.TrimSpace(params.Get("until")); until != "" {
		parsed, err := time.Parse(wireDateLayout, until)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWindow)
			return
		}
		query.Until = parsed
	}
	if limit := strings.TrimSpace(params.Get("limit")); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWindow)
			return
		}
		query.Limit = parsed
	}

	occurrences, err := h.schedules.ListOccurrences(r.Context(), query)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOccurrenceResponses(occurrences))
}

func (h *CourseHandler) courseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h == nil || h.courses == nil {
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
