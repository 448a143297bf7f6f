package grading

import (
	"fmt"
	"strings"
)

// Question types understood by the engine.
const (
	TypeMCQ      = "mcq"
	TypeCheckbox = "checkbox"
	TypeShort    = "short"
	TypeLong     = "long"
	TypeMixed    = "mixed"
)

// Q is a minimal view of a question needed for grading.
// Keep this in sync with whatever fields your store uses.
type Q struct {
	Type          string
	Points        float64
	CorrectAnswer string
	OptionsCount  int
}

// Result is the outcome of grading a single question response.
// Correct == nil means the answer is pending manual grading and must be
// excluded from score totals until a grader scores it.
type Result struct {
	Correct      *bool
	PointsEarned float64
}

func graded(ok bool, points float64) Result {
	r := Result{Correct: &ok}
	if ok {
		r.PointsEarned = points
	}
	return r
}

// Strategy grades a single question.
//
// A returned error is diagnostic only: the Result is always usable, with
// unparseable answers already downgraded to "wrong" so one malformed
// submission never blocks scoring the rest of a session.
type Strategy interface {
	Grade(q Q, raw string) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(q Q, raw string) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(q Q, raw string) (Result, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		// Unknown type: punt to manual rather than guess.
		return Result{}, fmt.Errorf("no strategy for question type %q", q.Type)
	}
	return s.Grade(q, raw)
}

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[string]Strategy{
			TypeMCQ:      choiceStrategy{},
			TypeCheckbox: choiceStrategy{},
			TypeShort:    shortStrategy{},
			TypeLong:     longStrategy{},
			TypeMixed:    mixedStrategy{},
		},
	}
}

// --- Strategies ---

// choiceStrategy covers both mcq and checkbox: the stored key is one letter
// or a comma-separated letter set, compared by set equality.
type choiceStrategy struct{}

func (choiceStrategy) Grade(q Q, raw string) (Result, error) {
	return graded(letterSetsEqual(raw, q.CorrectAnswer), q.Points), nil
}

// shortStrategy compares pipe-delimited slots. All slots must match for
// credit; there is no partial credit across slots.
type shortStrategy struct{}

func (shortStrategy) Grade(q Q, raw string) (Result, error) {
	want := splitSlots(q.CorrectAnswer)
	got := normalizeSlots(raw)
	if len(got) != len(want) {
		return graded(false, q.Points), nil
	}
	for i := range want {
		if !strings.EqualFold(got[i], want[i]) {
			return graded(false, q.Points), nil
		}
	}
	return graded(true, q.Points), nil
}

// longStrategy never auto-scores free text.
type longStrategy struct{}

func (longStrategy) Grade(Q, string) (Result, error) {
	return Result{Correct: nil, PointsEarned: 0}, nil
}

// mixedStrategy scores an ordered list of heterogeneous components
// all-or-nothing: any wrong component zeroes the whole question.
type mixedStrategy struct{}

func (mixedStrategy) Grade(q Q, raw string) (Result, error) {
	key, err := parseComponents(q.CorrectAnswer)
	if err != nil {
		// Broken answer key; never award points against it.
		return graded(false, q.Points), fmt.Errorf("answer key: %w", err)
	}
	got, err := parseSubmittedComponents(raw, key)
	if err != nil {
		return graded(false, q.Points), err
	}
	if len(got) != len(key) {
		return graded(false, q.Points), nil
	}
	for i, want := range key {
		kind, err := componentKind(want.Type)
		if err != nil {
			return graded(false, q.Points), fmt.Errorf("answer key: %w", err)
		}
		match := false
		switch kind {
		case kindChoice:
			match = letterSetsEqual(got[i].Value, want.Value)
		case kindShort:
			match = strings.EqualFold(strings.TrimSpace(got[i].Value), strings.TrimSpace(want.Value))
		}
		if !match {
			return graded(false, q.Points), nil
		}
	}
	return graded(true, q.Points), nil
}
