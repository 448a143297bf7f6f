package curriculum

import "testing"

func fixtureLadder(t *testing.T) *Ladder {
	t.Helper()
	programs := []Program{
		{ID: "math", Name: "Mathematics", Position: 1},
		{ID: "lang", Name: "Language Arts", Position: 2},
	}
	subs := []SubProgram{
		{ID: "math-found", ProgramID: "math", Name: "Foundations", Position: 1},
		{ID: "math-adv", ProgramID: "math", Name: "Advanced", Position: 2},
		{ID: "lang-core", ProgramID: "lang", Name: "Core", Position: 1},
	}
	levels := []Level{
		// deliberately shuffled: order must come from the sort keys
		{ID: "L5", SubProgramID: "lang-core", Number: 1},
		{ID: "L2", SubProgramID: "math-found", Number: 2},
		{ID: "L4", SubProgramID: "math-adv", Number: 2},
		{ID: "L1", SubProgramID: "math-found", Number: 1},
		{ID: "L3", SubProgramID: "math-adv", Number: 1},
	}
	ld, err := BuildLadder(programs, subs, levels)
	if err != nil {
		t.Fatalf("BuildLadder: %v", err)
	}
	return ld
}

func TestLadderTotalOrder(t *testing.T) {
	ld := fixtureLadder(t)
	want := []string{"L1", "L2", "L3", "L4", "L5"}
	got := ld.Levels()
	if len(got) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestLadderStep(t *testing.T) {
	ld := fixtureLadder(t)

	up, ok := ld.Step("L2", DirectionUp)
	if !ok || up.ID != "L3" {
		t.Fatalf("step up from L2: got %v ok=%v, want L3", up.ID, ok)
	}
	down, ok := ld.Step("L3", DirectionDown)
	if !ok || down.ID != "L2" {
		t.Fatalf("step down from L3: got %v ok=%v, want L2", down.ID, ok)
	}
}

func TestLadderBoundaries(t *testing.T) {
	ld := fixtureLadder(t)

	if _, ok := ld.Step("L5", DirectionUp); ok {
		t.Fatal("expected boundary stepping up from top level")
	}
	if _, ok := ld.Step("L1", DirectionDown); ok {
		t.Fatal("expected boundary stepping down from bottom level")
	}
	if _, ok := ld.Step("missing", DirectionUp); ok {
		t.Fatal("expected no step from unknown level")
	}
	if _, ok := ld.Step("L2", Direction("sideways")); ok {
		t.Fatal("expected no step for invalid direction")
	}
}

func TestBuildLadderRejectsBadHierarchy(t *testing.T) {
	progs := []Program{{ID: "p", Position: 1}}
	subs := []SubProgram{{ID: "s", ProgramID: "p", Position: 1}}

	if _, err := BuildLadder(progs, subs, []Level{
		{ID: "a", SubProgramID: "s", Number: 1},
		{ID: "a", SubProgramID: "s", Number: 2},
	}); err == nil {
		t.Fatal("expected error for duplicate level id")
	}
	if _, err := BuildLadder(progs, subs, []Level{
		{ID: "a", SubProgramID: "nope", Number: 1},
	}); err == nil {
		t.Fatal("expected error for unknown subprogram")
	}
	if _, err := BuildLadder(progs, []SubProgram{{ID: "s", ProgramID: "ghost", Position: 1}}, nil); err == nil {
		t.Fatal("expected error for unknown program")
	}
}
