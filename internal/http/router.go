package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Middleware  []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Courses != nil {
		mux.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Courses.List(w, r)
			case http.MethodPost:
				cfg.Courses.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/courses/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/courses/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}

			courseID, tail, _ := strings.Cut(rest, "/")
			if courseID == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithCourseID(r.Context(), courseID))

			switch {
			case tail == "":
				switch r.Method {
				case http.MethodGet:
					cfg.Courses.Get(w, r)
				case http.MethodPut:
					cfg.Courses.Update(w, r)
				case http.MethodDelete:
					cfg.Courses.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case tail == "schedule":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Courses.Describe(w, r)
			case tail == "occurrences":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Courses.Occurrences(w, r)
			case tail == "capacity" && cfg.Enrollments != nil:
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Enrollments.Capacity(w, r)
			case tail == "enrollments" && cfg.Enrollments != nil:
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Enrollments.Enroll(w, r)
			case strings.HasPrefix(tail, "enrollments/") && cfg.Enrollments != nil:
				subjectID := strings.TrimPrefix(tail, "enrollments/")
				if subjectID == "" || strings.Contains(subjectID, "/") {
					http.NotFound(w, r)
					return
				}
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				r = r.WithContext(ContextWithSubjectID(r.Context(), subjectID))
				cfg.Enrollments.Cancel(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
