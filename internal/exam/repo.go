package exam

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no exam matches a lookup.
var ErrNotFound = errors.New("exam not found")

type Store interface {
	PutExam(ctx context.Context, e Exam) error
	// GetExam is student-safe (no answer keys).
	GetExam(ctx context.Context, id string) (Exam, error)
	// GetExamAdmin returns the full exam, for grading and proctors.
	GetExamAdmin(ctx context.Context, id string) (Exam, error)
	// ExamForLevel resolves the exam delivered for a curriculum level.
	// Several exams may share a level; the newest wins.
	ExamForLevel(ctx context.Context, levelID string) (Exam, error)
	// AllExams returns every exam with keys, for consistency passes.
	AllExams(ctx context.Context) ([]Exam, error)
}
