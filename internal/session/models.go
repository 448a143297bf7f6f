package session

import (
	"time"

	"github.com/brightpath-edu/placement-engine/internal/curriculum"
)

// DefaultGrace is the window after timer expiry during which late-arriving
// answers are still accepted. Sized to absorb network latency on the final
// answer batch.
const DefaultGrace = 5 * time.Minute

type Phase string

const (
	PhaseActive    Phase = "active"
	PhaseGrace     Phase = "grace_period"
	PhaseCompleted Phase = "completed"
)

// Session is a candidate's run through a placement exam. ExamID tracks the
// active exam and is swapped by difficulty adjustments; OriginalLevelID is
// fixed at start, FinalLevelID moves with each adjustment.
type Session struct {
	ID              string     `json:"id"`
	ExamID          string     `json:"exam_id"`
	UserID          string     `json:"user_id"`
	TimerMinutes    int        `json:"timer_minutes"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	OriginalLevelID string     `json:"original_level_id"`
	FinalLevelID    string     `json:"final_level_id"`
	AdjustmentCount int        `json:"adjustment_count"`
}

// TimerExpiry is when the session leaves ACTIVE.
func (s Session) TimerExpiry() time.Time {
	return s.StartedAt.Add(time.Duration(s.TimerMinutes) * time.Minute)
}

// GraceDeadline is when the session stops accepting answers.
func (s Session) GraceDeadline(grace time.Duration) time.Time {
	return s.TimerExpiry().Add(grace)
}

func (s Session) TimerExpired(now time.Time) bool {
	return now.After(s.TimerExpiry())
}

// CanAcceptAnswers gates on the grace deadline, never on CompletedAt: a
// concurrent force-complete may not be persisted yet when a late answer
// arrives, and gating on CompletedAt would silently drop that answer.
func (s Session) CanAcceptAnswers(now time.Time, grace time.Duration) bool {
	return !now.After(s.GraceDeadline(grace))
}

// PhaseAt computes the lifecycle phase from wall clock; there is no stored
// state and no background timer.
func (s Session) PhaseAt(now time.Time, grace time.Duration) Phase {
	if s.CompletedAt != nil || now.After(s.GraceDeadline(grace)) {
		return PhaseCompleted
	}
	if s.TimerExpired(now) {
		return PhaseGrace
	}
	return PhaseActive
}

// Answer is the one row per (session, question); submissions upsert it.
// QuestionType and PointsPossible are snapshotted at grading time so totals
// survive mid-session exam swaps. Correct == nil means pending manual grade.
type Answer struct {
	SessionID      string    `json:"session_id"`
	QuestionID     string    `json:"question_id"`
	Raw            string    `json:"answer"`
	QuestionType   string    `json:"question_type"`
	PointsPossible float64   `json:"points_possible"`
	PointsEarned   float64   `json:"points_earned"`
	Correct        *bool     `json:"is_correct"`
	GradedAt       time.Time `json:"graded_at"`
	GradedBy       string    `json:"graded_by,omitempty"` // empty = autograded
}

// Adjustment is the immutable audit record of one difficulty step.
type Adjustment struct {
	ID          string               `json:"id"`
	SessionID   string               `json:"session_id"`
	Direction   curriculum.Direction `json:"direction"`
	FromLevelID string               `json:"from_level_id"`
	ToLevelID   string               `json:"to_level_id"`
	CreatedAt   time.Time            `json:"created_at"`
}
