package leveling

import (
	"context"
	"errors"
	"testing"

	"github.com/brightpath-edu/placement-engine/internal/curriculum"
	"github.com/brightpath-edu/placement-engine/internal/exam"
)

func testLadder(t *testing.T) *curriculum.Ladder {
	t.Helper()
	ld, err := curriculum.BuildLadder(
		[]curriculum.Program{{ID: "p", Position: 1}},
		[]curriculum.SubProgram{{ID: "s", ProgramID: "p", Position: 1}},
		[]curriculum.Level{
			{ID: "L1", SubProgramID: "s", Number: 1},
			{ID: "L2", SubProgramID: "s", Number: 2},
			{ID: "L3", SubProgramID: "s", Number: 3},
		},
	)
	if err != nil {
		t.Fatalf("ladder: %v", err)
	}
	return ld
}

func TestAdjustStepsAndReturnsExam(t *testing.T) {
	ctx := context.Background()
	exams := exam.NewInMemoryStore()
	_ = exams.PutExam(ctx, exam.Exam{ID: "e2", LevelID: "L2", Title: "Level 2 placement"})
	eng := NewEngine(testLadder(t), exams)

	out, err := eng.Adjust(ctx, "L1", curriculum.DirectionUp)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if out.Boundary {
		t.Fatal("unexpected boundary")
	}
	if out.Level.ID != "L2" || out.Exam.ID != "e2" {
		t.Fatalf("got level=%s exam=%s, want L2/e2", out.Level.ID, out.Exam.ID)
	}
}

func TestAdjustBoundaries(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(testLadder(t), exam.NewInMemoryStore())

	for _, tc := range []struct {
		level string
		dir   curriculum.Direction
	}{
		{"L3", curriculum.DirectionUp},
		{"L1", curriculum.DirectionDown},
	} {
		out, err := eng.Adjust(ctx, tc.level, tc.dir)
		if err != nil {
			t.Fatalf("adjust(%s,%s): %v", tc.level, tc.dir, err)
		}
		if !out.Boundary {
			t.Fatalf("adjust(%s,%s): expected boundary", tc.level, tc.dir)
		}
	}
}

func TestAdjustNoExamForLevel(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(testLadder(t), exam.NewInMemoryStore())

	_, err := eng.Adjust(ctx, "L1", curriculum.DirectionUp)
	if !errors.Is(err, ErrNoExamForLevel) {
		t.Fatalf("expected ErrNoExamForLevel, got %v", err)
	}
}

func TestAdjustRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(testLadder(t), exam.NewInMemoryStore())

	if _, err := eng.Adjust(ctx, "L1", curriculum.Direction("diagonal")); err == nil {
		t.Fatal("expected error for invalid direction")
	}
	if _, err := eng.Adjust(ctx, "ghost", curriculum.DirectionUp); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
