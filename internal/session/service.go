package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath-edu/placement-engine/internal/curriculum"
	"github.com/brightpath-edu/placement-engine/internal/exam"
	"github.com/brightpath-edu/placement-engine/internal/grading"
	"github.com/brightpath-edu/placement-engine/internal/leveling"
)

// ErrSessionClosed means the answer window has passed; the client should
// discard the submission and tell the candidate, not retry.
var ErrSessionClosed = errors.New("session no longer accepting answers")

// Service owns the session lifecycle. All time-based transitions are lazy
// predicates over the wall clock; there is no background timer process.
// Mutations on one session serialize on a per-session lock so answer upserts
// are linearizable per question and adjustments stay atomic. Sessions are
// independent; there is no cross-session locking.
type Service struct {
	store   Store
	exams   exam.Store
	grader  grading.Grader
	leveler *leveling.Engine

	grace time.Duration
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Service)

// WithGracePeriod overrides the 5-minute default.
func WithGracePeriod(d time.Duration) Option { return func(s *Service) { s.grace = d } }

// WithClock injects the wall clock for tests.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(store Store, exams exam.Store, grader grading.Grader, leveler *leveling.Engine, opts ...Option) *Service {
	s := &Service{
		store:   store,
		exams:   exams,
		grader:  grader,
		leveler: leveler,
		grace:   DefaultGrace,
		now:     time.Now,
		locks:   map[string]*sync.Mutex{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Start opens a session for the exam's level with the exam's timer.
func (s *Service) Start(ctx context.Context, examID, userID string) (Session, error) {
	ex, err := s.exams.GetExamAdmin(ctx, examID)
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		ID:              uuid.NewString(),
		ExamID:          ex.ID,
		UserID:          userID,
		TimerMinutes:    ex.TimerMinutes,
		StartedAt:       s.now(),
		OriginalLevelID: ex.LevelID,
		FinalLevelID:    ex.LevelID,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get returns the session, persisting the lazy GRACE_PERIOD -> COMPLETED
// transition if the grace deadline has passed.
func (s *Service) Get(ctx context.Context, sessionID string) (Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	if sess.CompletedAt == nil && sess.PhaseAt(now, s.grace) == PhaseCompleted {
		if _, err := s.store.Complete(ctx, sessionID, now); err != nil {
			return Session{}, err
		}
		return s.store.GetSession(ctx, sessionID)
	}
	return sess, nil
}

// Phase reports the current lifecycle phase of a session.
func (s *Service) Phase(sess Session) Phase {
	return sess.PhaseAt(s.now(), s.grace)
}

// SubmitAnswer upserts the answer for one question and grades it
// synchronously. Completion is never set here, and the timing gate is the
// grace deadline only.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, questionID, raw string) (Answer, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return Answer{}, err
	}
	now := s.now()
	if !sess.CanAcceptAnswers(now, s.grace) {
		return Answer{}, fmt.Errorf("session %s: %w", sessionID, ErrSessionClosed)
	}

	ex, err := s.exams.GetExamAdmin(ctx, sess.ExamID)
	if err != nil {
		return Answer{}, err
	}
	q, ok := ex.Question(questionID)
	if !ok {
		return Answer{}, fmt.Errorf("question %s not in exam %s", questionID, ex.ID)
	}

	res, gerr := s.grader.Grade(grading.Q{
		Type:          q.Type,
		Points:        q.Points,
		CorrectAnswer: q.CorrectAnswer,
		OptionsCount:  q.OptionsCount,
	}, raw)
	if gerr != nil {
		// Malformed encodings are already downgraded to "wrong"; keep scoring.
		log.Printf("warn: session %s question %s: %v", sessionID, questionID, gerr)
	}

	a := Answer{
		SessionID:      sessionID,
		QuestionID:     questionID,
		Raw:            raw,
		QuestionType:   q.Type,
		PointsPossible: q.Points,
		PointsEarned:   res.PointsEarned,
		Correct:        res.Correct,
		GradedAt:       now,
	}
	if err := s.store.UpsertAnswer(ctx, a); err != nil {
		return Answer{}, err
	}
	return a, nil
}

// ForceComplete sets completedAt if still null; otherwise a no-op. Called by
// the explicit submit action and by anything detecting grace expiry.
func (s *Service) ForceComplete(ctx context.Context, sessionID string) (Session, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	if _, err := s.store.Complete(ctx, sessionID, s.now()); err != nil {
		return Session{}, err
	}
	return s.store.GetSession(ctx, sessionID)
}

// RequestAdjustment walks the curriculum one step and swaps the active exam.
// A Boundary outcome mutates nothing; the adjustment count increments only
// on success.
func (s *Service) RequestAdjustment(ctx context.Context, sessionID string, dir curriculum.Direction) (leveling.Outcome, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return leveling.Outcome{}, err
	}
	now := s.now()
	if !sess.CanAcceptAnswers(now, s.grace) {
		return leveling.Outcome{}, fmt.Errorf("session %s: %w", sessionID, ErrSessionClosed)
	}

	out, err := s.leveler.Adjust(ctx, sess.FinalLevelID, dir)
	if err != nil {
		return leveling.Outcome{}, err
	}
	if out.Boundary {
		return out, nil
	}

	adj := Adjustment{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Direction:   dir,
		FromLevelID: sess.FinalLevelID,
		ToLevelID:   out.Level.ID,
		CreatedAt:   now,
	}
	if err := s.store.ApplyAdjustment(ctx, adj, out.Exam.ID, sess.AdjustmentCount+1); err != nil {
		return leveling.Outcome{}, err
	}
	return out, nil
}

// Results recomputes session totals from all stored answers.
func (s *Service) Results(ctx context.Context, sessionID string) (Results, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return Results{}, err
	}
	answers, err := s.store.Answers(ctx, sessionID)
	if err != nil {
		return Results{}, err
	}
	return Aggregate(answers), nil
}

// ApplyManualGrades records human scores for long answers and returns the
// recomputed totals. It may run after completion: score fields move,
// completedAt never does.
func (s *Service) ApplyManualGrades(ctx context.Context, sessionID string, updates map[string]ManualGradeInput, gradedBy string) (Results, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return Results{}, err
	}
	answers, err := s.store.Answers(ctx, sessionID)
	if err != nil {
		return Results{}, err
	}
	byQ := make(map[string]Answer, len(answers))
	for _, a := range answers {
		byQ[a.QuestionID] = a
	}

	now := s.now()
	for qid, in := range updates {
		a, ok := byQ[qid]
		if !ok {
			return Results{}, fmt.Errorf("question %s: %w", qid, ErrNoAnswer)
		}
		if a.QuestionType != grading.TypeLong {
			return Results{}, fmt.Errorf("question %s is %s, only long answers are graded manually", qid, a.QuestionType)
		}
		if in.Points < 0 {
			in.Points = 0
		}
		if in.Points > a.PointsPossible {
			in.Points = a.PointsPossible
		}
		if _, err := s.store.SetManualGrade(ctx, sessionID, qid, in, gradedBy, now); err != nil {
			return Results{}, err
		}
	}

	answers, err = s.store.Answers(ctx, sessionID)
	if err != nil {
		return Results{}, err
	}
	return Aggregate(answers), nil
}

// Adjustments returns the audit trail for a session.
func (s *Service) Adjustments(ctx context.Context, sessionID string) ([]Adjustment, error) {
	return s.store.Adjustments(ctx, sessionID)
}
