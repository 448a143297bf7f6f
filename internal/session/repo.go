package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no session matches a lookup.
	ErrNotFound = errors.New("session not found")
	// ErrNoAnswer is returned when a manual grade targets a question the
	// candidate never answered.
	ErrNoAnswer = errors.New("answer not found")
)

// ManualGradeInput is one human-assigned grade for a long answer.
type ManualGradeInput struct {
	Points  float64 `json:"points"`
	Correct bool    `json:"correct"`
	Comment string  `json:"comment,omitempty"`
}

type Store interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)

	// Complete sets completed_at if still unset and reports whether this
	// call set it. Idempotent by construction.
	Complete(ctx context.Context, id string, at time.Time) (bool, error)

	// UpsertAnswer writes the single answer row for (session, question),
	// replacing any previous submission.
	UpsertAnswer(ctx context.Context, a Answer) error
	Answers(ctx context.Context, sessionID string) ([]Answer, error)

	// ApplyAdjustment atomically moves the session to the adjusted level and
	// exam, bumps the adjustment count, and appends the audit record.
	ApplyAdjustment(ctx context.Context, adj Adjustment, newExamID string, newCount int) error
	Adjustments(ctx context.Context, sessionID string) ([]Adjustment, error)

	// SetManualGrade overwrites score fields of an existing answer row.
	SetManualGrade(ctx context.Context, sessionID, questionID string, in ManualGradeInput, gradedBy string, at time.Time) (Answer, error)
}
