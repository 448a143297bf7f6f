package exam

import (
	"context"
	"log"

	"github.com/brightpath-edu/placement-engine/internal/grading"
)

// RepairOptionCounts recomputes each question's OptionsCount from its stored
// answer-key encoding and rewrites exams where they disagree. Mismatches are
// logged as warnings; the repaired value always wins over the stale one.
// Returns the number of questions repaired.
func RepairOptionCounts(ctx context.Context, s Store) (int, error) {
	exams, err := s.AllExams(ctx)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, e := range exams {
		changed := false
		for i, q := range e.Questions {
			implied, ok := grading.ImpliedSlotCount(q.Type, q.CorrectAnswer)
			if !ok || q.OptionsCount == implied {
				continue
			}
			log.Printf("warn: exam %s question %s: options_count=%d but answer key implies %d, repairing",
				e.ID, q.ID, q.OptionsCount, implied)
			e.Questions[i].OptionsCount = implied
			changed = true
			repaired++
		}
		if changed {
			if err := s.PutExam(ctx, e); err != nil {
				return repaired, err
			}
		}
	}
	return repaired, nil
}
