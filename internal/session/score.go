package session

// Results is the recomputed score snapshot for a session.
// PendingManual lists questions excluded from both the numerator and the
// denominator until a human grades them.
type Results struct {
	TotalScore    float64  `json:"total_score"`
	TotalPossible float64  `json:"total_possible"`
	Percentage    float64  `json:"percentage"`
	PendingManual []string `json:"pending_manual,omitempty"`
}

// Aggregate recomputes totals from all stored answers. An answer with
// Correct == nil stays out of both sums; it enters both once manually
// graded. Percentage is 0 when nothing gradable has been answered.
func Aggregate(answers []Answer) Results {
	var res Results
	for _, a := range answers {
		if a.Correct == nil {
			res.PendingManual = append(res.PendingManual, a.QuestionID)
			continue
		}
		res.TotalScore += a.PointsEarned
		res.TotalPossible += a.PointsPossible
	}
	if res.TotalPossible > 0 {
		res.Percentage = res.TotalScore / res.TotalPossible * 100
	}
	return res
}
