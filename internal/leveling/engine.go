package leveling

import (
	"context"
	"errors"
	"fmt"

	"github.com/brightpath-edu/placement-engine/internal/curriculum"
	"github.com/brightpath-edu/placement-engine/internal/exam"
)

// ErrNoExamForLevel marks a curriculum data gap: the adjacent level exists
// but no exam is mapped to it. The caller decides whether to retry another
// step or surface the adjustment as unavailable.
var ErrNoExamForLevel = errors.New("no exam for level")

// ExamSource resolves the exam delivered for a level.
type ExamSource interface {
	ExamForLevel(ctx context.Context, levelID string) (exam.Exam, error)
}

// Outcome of an adjustment request. Boundary means the candidate is already
// at the top or bottom of the ladder; that is a normal result, not an error.
type Outcome struct {
	Boundary bool
	Level    curriculum.Level
	Exam     exam.Exam
}

// Engine walks the curriculum ladder one step per request.
type Engine struct {
	ladder *curriculum.Ladder
	exams  ExamSource
}

func NewEngine(ladder *curriculum.Ladder, exams ExamSource) *Engine {
	return &Engine{ladder: ladder, exams: exams}
}

// Adjust returns the adjacent level and its exam in the requested direction.
func (e *Engine) Adjust(ctx context.Context, currentLevelID string, dir curriculum.Direction) (Outcome, error) {
	if !dir.Valid() {
		return Outcome{}, fmt.Errorf("invalid direction %q", dir)
	}
	if _, ok := e.ladder.Level(currentLevelID); !ok {
		return Outcome{}, fmt.Errorf("unknown level %q", currentLevelID)
	}
	next, ok := e.ladder.Step(currentLevelID, dir)
	if !ok {
		return Outcome{Boundary: true}, nil
	}
	ex, err := e.exams.ExamForLevel(ctx, next.ID)
	if err != nil {
		if errors.Is(err, exam.ErrNotFound) {
			return Outcome{}, fmt.Errorf("level %s: %w", next.ID, ErrNoExamForLevel)
		}
		return Outcome{}, err
	}
	return Outcome{Level: next, Exam: ex}, nil
}
