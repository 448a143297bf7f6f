package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	auth "github.com/brightpath-edu/placement-engine/internal/auth/middleware"
	"github.com/brightpath-edu/placement-engine/internal/session"
)

type applyGradesReq struct {
	Items map[string]session.ManualGradeInput `json:"items"` // question_id -> grade
}

// POST /sessions/{sessionID}/grades
func ApplyGradesHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		if id == "" {
			http.Error(w, "sessionID required", http.StatusBadRequest)
			return
		}
		var req applyGradesReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Items) == 0 {
			http.Error(w, "items required", http.StatusBadRequest)
			return
		}
		gradedBy := auth.SubjectFromContext(r.Context())
		res, err := svc.ApplyManualGrades(r.Context(), id, req.Items, gradedBy)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, session.ErrNoAnswer):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "apply grades: "+err.Error(), http.StatusBadRequest)
			}
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}
