package session

import "testing"

func correct(earned, possible float64, qid string) Answer {
	ok := earned == possible
	return Answer{QuestionID: qid, PointsEarned: earned, PointsPossible: possible, Correct: &ok}
}

func pending(possible float64, qid string) Answer {
	return Answer{QuestionID: qid, PointsPossible: possible, Correct: nil}
}

func TestAggregateExcludesPendingManual(t *testing.T) {
	answers := []Answer{
		correct(1, 1, "q1"),
		correct(0, 2, "q2"),
		pending(5, "q3"),
	}
	res := Aggregate(answers)
	if res.TotalScore != 1 || res.TotalPossible != 3 {
		t.Fatalf("got %v/%v, want 1/3", res.TotalScore, res.TotalPossible)
	}
	if len(res.PendingManual) != 1 || res.PendingManual[0] != "q3" {
		t.Fatalf("pending=%v, want [q3]", res.PendingManual)
	}
}

// Pending answers leak into neither sum, even if a stale row carries points.
func TestAggregateNumeratorNeverCountsExcluded(t *testing.T) {
	stale := Answer{QuestionID: "q1", PointsEarned: 5, PointsPossible: 5, Correct: nil}
	res := Aggregate([]Answer{stale, correct(1, 1, "q2")})
	if res.TotalScore != 1 {
		t.Fatalf("numerator=%v includes excluded points", res.TotalScore)
	}
	if res.TotalPossible != 1 {
		t.Fatalf("denominator=%v includes excluded points", res.TotalPossible)
	}
}

func TestAggregateEmptyAndZeroPossible(t *testing.T) {
	res := Aggregate(nil)
	if res.TotalScore != 0 || res.TotalPossible != 0 || res.Percentage != 0 {
		t.Fatalf("empty aggregate not zero: %+v", res)
	}
	res = Aggregate([]Answer{pending(5, "q1")})
	if res.Percentage != 0 {
		t.Fatalf("percentage=%v with zero possible, want 0", res.Percentage)
	}
}

// Ten 1-point auto-graded questions answered correctly plus two unscored
// 5-point long answers score 10/10; manual grades of 3/5 and 5/5 move the
// session to 18/20.
func TestAggregateManualGradingScenario(t *testing.T) {
	var answers []Answer
	for i := 0; i < 10; i++ {
		answers = append(answers, correct(1, 1, string(rune('a'+i))))
	}
	answers = append(answers, pending(5, "long1"), pending(5, "long2"))

	res := Aggregate(answers)
	if res.TotalScore != 10 || res.TotalPossible != 10 || res.Percentage != 100 {
		t.Fatalf("before manual grading: got %v/%v (%v%%), want 10/10 (100%%)", res.TotalScore, res.TotalPossible, res.Percentage)
	}
	if len(res.PendingManual) != 2 {
		t.Fatalf("pending=%v, want two entries", res.PendingManual)
	}

	graded := answers[:10]
	f, tr := false, true
	graded = append(graded,
		Answer{QuestionID: "long1", PointsEarned: 3, PointsPossible: 5, Correct: &f},
		Answer{QuestionID: "long2", PointsEarned: 5, PointsPossible: 5, Correct: &tr},
	)
	res = Aggregate(graded)
	if res.TotalScore != 18 || res.TotalPossible != 20 || res.Percentage != 90 {
		t.Fatalf("after manual grading: got %v/%v (%v%%), want 18/20 (90%%)", res.TotalScore, res.TotalPossible, res.Percentage)
	}
	if len(res.PendingManual) != 0 {
		t.Fatalf("pending=%v, want none", res.PendingManual)
	}
}
