package curriculum

// Direction of a difficulty step along the ladder.
type Direction string

const (
	DirectionUp   Direction = "up"   // harder
	DirectionDown Direction = "down" // easier
)

func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

type Program struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type SubProgram struct {
	ID        string `json:"id"`
	ProgramID string `json:"program_id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
}

// Level is one rung of the curriculum. Read-only to this subsystem; the
// total order over levels is (program position, subprogram position, number).
type Level struct {
	ID           string `json:"id"`
	SubProgramID string `json:"subprogram_id"`
	Number       int    `json:"level_number"`
	Name         string `json:"name,omitempty"`
}
