package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func assertResult(t *testing.T, got Result, correct *bool, earned float64) {
	t.Helper()
	if correct == nil {
		if got.Correct != nil {
			t.Fatalf("expected correct=nil, got %v", *got.Correct)
		}
	} else {
		if got.Correct == nil {
			t.Fatalf("expected correct=%v, got nil", *correct)
		}
		if *got.Correct != *correct {
			t.Fatalf("expected correct=%v, got %v", *correct, *got.Correct)
		}
	}
	if got.PointsEarned != earned {
		t.Fatalf("expected earned=%v, got %v", earned, got.PointsEarned)
	}
}

func TestGradeChoice(t *testing.T) {
	g := NewDefaultGrader()
	tests := []struct {
		name    string
		qType   string
		key     string
		raw     string
		correct *bool
		earned  float64
	}{
		{name: "single letter exact", qType: TypeMCQ, key: "B", raw: "B", correct: boolPtr(true), earned: 2},
		{name: "single letter case-insensitive", qType: TypeMCQ, key: "B", raw: "b", correct: boolPtr(true), earned: 2},
		{name: "single letter wrong", qType: TypeMCQ, key: "B", raw: "A", correct: boolPtr(false), earned: 0},
		{name: "letter set order-insensitive", qType: TypeMCQ, key: "B,C", raw: "c, b", correct: boolPtr(true), earned: 2},
		{name: "letter set missing one", qType: TypeMCQ, key: "B,C", raw: "B", correct: boolPtr(false), earned: 0},
		{name: "letter set extra one", qType: TypeMCQ, key: "B,C", raw: "B,C,D", correct: boolPtr(false), earned: 0},
		{name: "empty submission", qType: TypeMCQ, key: "B", raw: "", correct: boolPtr(false), earned: 0},
		{name: "checkbox same rule", qType: TypeCheckbox, key: "A,D", raw: "d,a", correct: boolPtr(true), earned: 2},
		{name: "checkbox wrong", qType: TypeCheckbox, key: "A,D", raw: "a,b", correct: boolPtr(false), earned: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Grade(Q{Type: tc.qType, Points: 2, CorrectAnswer: tc.key}, tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertResult(t, res, tc.correct, tc.earned)
		})
	}
}

func TestGradeShort(t *testing.T) {
	g := NewDefaultGrader()
	tests := []struct {
		name    string
		key     string
		raw     string
		correct *bool
		earned  float64
	}{
		{name: "canonical all match", key: "paris|berlin", raw: "paris|berlin", correct: boolPtr(true), earned: 3},
		{name: "canonical case and spacing", key: "paris|berlin", raw: " Paris | BERLIN ", correct: boolPtr(true), earned: 3},
		{name: "legacy labeled all match", key: "paris|berlin", raw: "A: paris | B: berlin", correct: boolPtr(true), earned: 3},
		{name: "legacy labeled one wrong", key: "paris|berlin", raw: "A: paris | B: london", correct: boolPtr(false), earned: 0},
		{name: "no partial credit across slots", key: "paris|berlin", raw: "paris|london", correct: boolPtr(false), earned: 0},
		{name: "missing slot", key: "paris|berlin", raw: "paris", correct: boolPtr(false), earned: 0},
		{name: "extra slot", key: "paris|berlin", raw: "paris|berlin|rome", correct: boolPtr(false), earned: 0},
		{name: "single slot", key: "photosynthesis", raw: "Photosynthesis", correct: boolPtr(true), earned: 3},
		{name: "single slot legacy label", key: "photosynthesis", raw: "A: photosynthesis", correct: boolPtr(true), earned: 3},
		{name: "mixed labeling treated literally", key: "a: x|y", raw: "a: x|y", correct: boolPtr(true), earned: 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Grade(Q{Type: TypeShort, Points: 3, CorrectAnswer: tc.key, OptionsCount: 2}, tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertResult(t, res, tc.correct, tc.earned)
		})
	}
}

func TestLegacyAndCanonicalShortGradeIdentically(t *testing.T) {
	g := NewDefaultGrader()
	q := Q{Type: TypeShort, Points: 4, CorrectAnswer: "noun|verb|adjective", OptionsCount: 3}
	pairs := [][2]string{
		{"noun|verb|adjective", "A: noun | B: verb | C: adjective"},
		{"noun|verb|wrong", "A: noun | B: verb | C: wrong"},
		{"noun", "A: noun"},
	}
	for _, p := range pairs {
		canon, _ := g.Grade(q, p[0])
		legacy, _ := g.Grade(q, p[1])
		if canon.PointsEarned != legacy.PointsEarned || *canon.Correct != *legacy.Correct {
			t.Fatalf("encodings diverge for %q vs %q: canonical=%+v legacy=%+v", p[0], p[1], canon, legacy)
		}
	}
}

func TestGradeLongAlwaysManual(t *testing.T) {
	g := NewDefaultGrader()
	for _, raw := range []string{"", "a long essay about rivers", "A: box one | B: box two"} {
		res, err := g.Grade(Q{Type: TypeLong, Points: 5, OptionsCount: 2}, raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertResult(t, res, nil, 0)
	}
}

func TestGradeMixed(t *testing.T) {
	g := NewDefaultGrader()
	key := `[{"type":"MultipleChoice","value":"B,C"},{"type":"ShortAnswer","value":"paris"}]`
	q := Q{Type: TypeMixed, Points: 4, CorrectAnswer: key, OptionsCount: 2}

	tests := []struct {
		name    string
		raw     string
		correct *bool
		earned  float64
		wantErr bool
	}{
		{name: "all components match", raw: `[{"type":"MultipleChoice","value":"B,C"},{"type":"ShortAnswer","value":"paris"}]`, correct: boolPtr(true), earned: 4},
		{name: "choice set order-insensitive", raw: `[{"type":"MultipleChoice","value":"c,b"},{"type":"ShortAnswer","value":"Paris"}]`, correct: boolPtr(true), earned: 4},
		{name: "wrong short component zeroes all", raw: `[{"type":"MultipleChoice","value":"B,C"},{"type":"ShortAnswer","value":"london"}]`, correct: boolPtr(false), earned: 0},
		{name: "wrong choice component zeroes all", raw: `[{"type":"MultipleChoice","value":"B"},{"type":"ShortAnswer","value":"paris"}]`, correct: boolPtr(false), earned: 0},
		{name: "missing component", raw: `[{"type":"MultipleChoice","value":"B,C"}]`, correct: boolPtr(false), earned: 0},
		{name: "legacy labeled correct", raw: "A: B,C | B: paris", correct: boolPtr(true), earned: 4},
		{name: "legacy labeled wrong", raw: "A: B,C | B: london", correct: boolPtr(false), earned: 0},
		{name: "canonical slots without labels", raw: "B,C | paris", correct: boolPtr(true), earned: 4},
		{name: "malformed json is wrong not fatal", raw: `[{"type":"MultipleChoice",`, correct: boolPtr(false), earned: 0, wantErr: true},
		{name: "empty submission", raw: "", correct: boolPtr(false), earned: 0, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := g.Grade(q, tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedAnswer) {
					t.Fatalf("expected ErrMalformedAnswer, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertResult(t, res, tc.correct, tc.earned)
		})
	}
}

// Altering any single component of an N-component mixed question must zero
// the score, for every N and every position.
func TestGradeMixedAllOrNothingAcrossSizes(t *testing.T) {
	g := NewDefaultGrader()
	for n := 1; n <= 5; n++ {
		key := make([]component, n)
		for i := range key {
			if i%2 == 0 {
				key[i] = component{Type: "MultipleChoice", Value: "A,B"}
			} else {
				key[i] = component{Type: "ShortAnswer", Value: fmt.Sprintf("word%d", i)}
			}
		}
		keyJSON, _ := json.Marshal(key)
		q := Q{Type: TypeMixed, Points: 10, CorrectAnswer: string(keyJSON), OptionsCount: n}

		exact, _ := json.Marshal(key)
		res, err := g.Grade(q, string(exact))
		if err != nil {
			t.Fatalf("n=%d exact: %v", n, err)
		}
		assertResult(t, res, boolPtr(true), 10)

		for alter := 0; alter < n; alter++ {
			sub := make([]component, n)
			copy(sub, key)
			sub[alter] = component{Type: sub[alter].Type, Value: "altered"}
			subJSON, _ := json.Marshal(sub)
			res, err := g.Grade(q, string(subJSON))
			if err != nil {
				t.Fatalf("n=%d alter=%d: %v", n, alter, err)
			}
			assertResult(t, res, boolPtr(false), 0)
		}
	}
}

func TestGradeMixedBadAnswerKey(t *testing.T) {
	g := NewDefaultGrader()
	for _, key := range []string{"not json", "[]", `[{"type":"Essay","value":"x"}]`} {
		res, err := g.Grade(Q{Type: TypeMixed, Points: 4, CorrectAnswer: key}, "whatever")
		if !errors.Is(err, ErrMalformedAnswer) {
			t.Fatalf("key %q: expected ErrMalformedAnswer, got %v", key, err)
		}
		assertResult(t, res, boolPtr(false), 0)
	}
}

func TestGradeUnknownType(t *testing.T) {
	g := NewDefaultGrader()
	res, err := g.Grade(Q{Type: "diagram", Points: 2}, "x")
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	assertResult(t, res, nil, 0)
}
