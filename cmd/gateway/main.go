package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/brightpath-edu/placement-engine/internal/api/http"
	auth "github.com/brightpath-edu/placement-engine/internal/auth/middleware"
	"github.com/brightpath-edu/placement-engine/internal/config"
	"github.com/brightpath-edu/placement-engine/internal/curriculum"
	"github.com/brightpath-edu/placement-engine/internal/db"
	"github.com/brightpath-edu/placement-engine/internal/exam"
	"github.com/brightpath-edu/placement-engine/internal/grading"
	"github.com/brightpath-edu/placement-engine/internal/leveling"
	"github.com/brightpath-edu/placement-engine/internal/rbac"
	"github.com/brightpath-edu/placement-engine/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	examStore := exam.NewSQLStore(dbh)
	sessStore := session.NewSQLStore(dbh)

	// Stale slot counts are repaired once on boot, then on every upload.
	if n, err := exam.RepairOptionCounts(ctx, examStore); err != nil {
		log.Fatalf("option count repair: %v", err)
	} else if n > 0 {
		log.Printf("repaired options_count on %d questions", n)
	}

	ladder, err := curriculum.LoadLadder(ctx, dbh)
	if err != nil {
		log.Fatalf("load curriculum: %v", err)
	}
	log.Printf("curriculum ladder loaded: %d levels", ladder.Len())

	leveler := leveling.NewEngine(ladder, examStore)
	svc := session.NewService(sessStore, examStore, grading.NewDefaultGrader(), leveler,
		session.WithGracePeriod(time.Duration(cfg.GraceMinutes)*time.Minute))

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	creds := map[string]auth.Credential{
		cfg.AdminUser: {PassHash: cfg.AdminPassHash, Role: "admin"},
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, creds))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.UploadExamHandler(examStore, ladder))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", api.GetExamHandler(examStore))
		pr.With(rbac.Require("level:list")).
			Get("/levels", api.ListLevelsHandler(ladder))

		// Candidate flow
		pr.With(rbac.Require("session:create-own")).
			Post("/sessions", api.CreateSessionHandler(svc))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(svc))
		pr.With(rbac.Require("answer:submit")).
			Post("/sessions/{sessionID}/answers", api.SubmitAnswerHandler(svc))
		pr.With(rbac.Require("session:adjust")).
			Post("/sessions/{sessionID}/adjust", api.AdjustSessionHandler(svc))
		pr.With(rbac.Require("session:submit")).
			Post("/sessions/{sessionID}/submit", api.SubmitSessionHandler(svc))
		pr.With(rbac.RequireAny("results:view-own", "results:view-all")).
			Get("/sessions/{sessionID}/results", api.ResultsHandler(svc))
		pr.With(rbac.RequireAny("session:view-own", "session:view-all")).
			Get("/sessions/{sessionID}/adjustments", api.AdjustmentsHandler(svc))

		// Proctor grading
		pr.With(rbac.Require("grade:apply")).
			Post("/sessions/{sessionID}/grades", api.ApplyGradesHandler(svc))
	})

	log.Printf("placement gateway listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
