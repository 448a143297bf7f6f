package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	auth "github.com/brightpath-edu/placement-engine/internal/auth/middleware"
	"github.com/brightpath-edu/placement-engine/internal/curriculum"
	"github.com/brightpath-edu/placement-engine/internal/leveling"
	"github.com/brightpath-edu/placement-engine/internal/rbac"
	"github.com/brightpath-edu/placement-engine/internal/session"
)

var viewChecker = rbac.NewChecker(nil)

// sessionView is the wire shape of a session, with the derived phase.
type sessionView struct {
	session.Session
	Phase session.Phase `json:"phase"`
}

func view(svc *session.Service, s session.Session) sessionView {
	return sessionView{Session: s, Phase: svc.Phase(s)}
}

// canView allows the session owner plus any role with the view-all grant.
func canView(r *http.Request, s session.Session) bool {
	if auth.SubjectFromContext(r.Context()) == s.UserID {
		return true
	}
	return viewChecker.Has(rbac.RoleFromContext(r.Context()), "session:view-all")
}

// POST /sessions  { "exam_id": "..." }
func CreateSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID string `json:"exam_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.ExamID == "" {
			http.Error(w, "exam_id required", 400)
			return
		}
		userID := auth.SubjectFromContext(r.Context())
		s, err := svc.Start(r.Context(), req.ExamID, userID)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(view(svc, s))
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, err := svc.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		if !canView(r, s) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(view(svc, s))
	}
}

// POST /sessions/{sessionID}/answers  { "question_id": "...", "answer": "..." }
func SubmitAnswerHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			QuestionID string `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.QuestionID == "" {
			http.Error(w, "question_id required", 400)
			return
		}
		a, err := svc.SubmitAnswer(r.Context(), id, req.QuestionID, req.Answer)
		if err != nil {
			if errors.Is(err, session.ErrSessionClosed) {
				http.Error(w, "the answer window for this session has closed", http.StatusConflict)
				return
			}
			if errors.Is(err, session.ErrNotFound) {
				http.Error(w, err.Error(), 404)
				return
			}
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}
}

// POST /sessions/{sessionID}/adjust  { "direction": "up" | "down" }
func AdjustSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		dir := curriculum.Direction(strings.ToLower(strings.TrimSpace(req.Direction)))
		out, err := svc.RequestAdjustment(r.Context(), id, dir)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrSessionClosed):
				http.Error(w, "the session has closed", http.StatusConflict)
			case errors.Is(err, leveling.ErrNoExamForLevel):
				log.Printf("warn: session %s: adjustment unavailable: %v", id, err)
				http.Error(w, "adjustment unavailable: no exam for the adjacent level", http.StatusUnprocessableEntity)
			case errors.Is(err, session.ErrNotFound):
				http.Error(w, err.Error(), 404)
			default:
				http.Error(w, err.Error(), 400)
			}
			return
		}
		if out.Boundary {
			_ = json.NewEncoder(w).Encode(map[string]any{"boundary": true})
			return
		}
		s, err := svc.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"boundary": false,
			"level":    out.Level,
			"session":  view(svc, s),
		})
	}
}

// POST /sessions/{sessionID}/submit
func SubmitSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, err := svc.ForceComplete(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		_ = json.NewEncoder(w).Encode(view(svc, s))
	}
}

// GET /sessions/{sessionID}/results
func ResultsHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, err := svc.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		if auth.SubjectFromContext(r.Context()) != s.UserID &&
			!viewChecker.Has(rbac.RoleFromContext(r.Context()), "results:view-all") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		res, err := svc.Results(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// GET /sessions/{sessionID}/adjustments
func AdjustmentsHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, err := svc.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 404)
			return
		}
		if !canView(r, s) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		adjs, err := svc.Adjustments(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if adjs == nil {
			adjs = []session.Adjustment{}
		}
		_ = json.NewEncoder(w).Encode(adjs)
	}
}
