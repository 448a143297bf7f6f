package exam

// Question belongs to an exam. CorrectAnswer is a type-dependent encoding:
// a letter set for mcq/checkbox, pipe-joined slot values for short, and a
// JSON component list for mixed. OptionsCount is the number of answer slots
// for short/mixed and the number of answer boxes for long.
type Question struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"` // mcq, checkbox, short, long, mixed
	Prompt        string  `json:"prompt,omitempty"`
	Points        float64 `json:"points"`
	CorrectAnswer string  `json:"correct_answer,omitempty"`
	OptionsCount  int     `json:"options_count,omitempty"`
}

// Exam belongs to exactly one curriculum level; many exams may share a level.
// Immutable during a session.
type Exam struct {
	ID           string     `json:"id"`
	LevelID      string     `json:"level_id"`
	Title        string     `json:"title"`
	TimerMinutes int        `json:"timer_minutes"`
	Questions    []Question `json:"questions"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// Question returns the question with the given ID.
func (e Exam) Question(id string) (Question, bool) {
	for _, q := range e.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// stripKeys removes answer keys for student-facing reads.
func stripKeys(e Exam) Exam {
	qs := make([]Question, len(e.Questions))
	copy(qs, e.Questions)
	for i := range qs {
		qs[i].CorrectAnswer = ""
	}
	e.Questions = qs
	return e
}
