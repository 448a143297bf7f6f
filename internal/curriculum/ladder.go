package curriculum

import (
	"fmt"
	"sort"
)

// Ladder is the precomputed total order over all levels. Built once at load
// time so that stepping to the next harder/easier level is an index lookup,
// not a three-table join per adjustment request.
type Ladder struct {
	levels []Level
	index  map[string]int // level ID -> position in levels
}

// BuildLadder validates the hierarchy and flattens it into a strict total
// order: program position, then subprogram position, then level number.
func BuildLadder(programs []Program, subs []SubProgram, levels []Level) (*Ladder, error) {
	progPos := make(map[string]int, len(programs))
	for _, p := range programs {
		if _, dup := progPos[p.ID]; dup {
			return nil, fmt.Errorf("duplicate program id: %s", p.ID)
		}
		progPos[p.ID] = p.Position
	}

	type subKey struct {
		progPos int
		subPos  int
	}
	subOrder := make(map[string]subKey, len(subs))
	for _, s := range subs {
		if _, dup := subOrder[s.ID]; dup {
			return nil, fmt.Errorf("duplicate subprogram id: %s", s.ID)
		}
		pp, ok := progPos[s.ProgramID]
		if !ok {
			return nil, fmt.Errorf("subprogram %s references unknown program %s", s.ID, s.ProgramID)
		}
		subOrder[s.ID] = subKey{progPos: pp, subPos: s.Position}
	}

	type ranked struct {
		key   subKey
		level Level
	}
	flat := make([]ranked, 0, len(levels))
	seen := make(map[string]bool, len(levels))
	for _, l := range levels {
		if seen[l.ID] {
			return nil, fmt.Errorf("duplicate level id: %s", l.ID)
		}
		seen[l.ID] = true
		k, ok := subOrder[l.SubProgramID]
		if !ok {
			return nil, fmt.Errorf("level %s references unknown subprogram %s", l.ID, l.SubProgramID)
		}
		flat = append(flat, ranked{key: k, level: l})
	}

	sort.SliceStable(flat, func(i, j int) bool {
		a, b := flat[i], flat[j]
		if a.key.progPos != b.key.progPos {
			return a.key.progPos < b.key.progPos
		}
		if a.key.subPos != b.key.subPos {
			return a.key.subPos < b.key.subPos
		}
		return a.level.Number < b.level.Number
	})

	ld := &Ladder{
		levels: make([]Level, len(flat)),
		index:  make(map[string]int, len(flat)),
	}
	for i, r := range flat {
		ld.levels[i] = r.level
		ld.index[r.level.ID] = i
	}
	return ld, nil
}

// Level returns the level with the given ID.
func (l *Ladder) Level(id string) (Level, bool) {
	i, ok := l.index[id]
	if !ok {
		return Level{}, false
	}
	return l.levels[i], true
}

// Step returns the adjacent level in the given direction. The second return
// is false at the top/bottom of the ladder (a boundary, not an error) and
// when the starting level is unknown.
func (l *Ladder) Step(levelID string, dir Direction) (Level, bool) {
	i, ok := l.index[levelID]
	if !ok {
		return Level{}, false
	}
	switch dir {
	case DirectionUp:
		i++
	case DirectionDown:
		i--
	default:
		return Level{}, false
	}
	if i < 0 || i >= len(l.levels) {
		return Level{}, false
	}
	return l.levels[i], true
}

// Levels returns the full ordered sequence, easiest first.
func (l *Ladder) Levels() []Level {
	out := make([]Level, len(l.levels))
	copy(out, l.levels)
	return out
}

// Len reports the number of levels on the ladder.
func (l *Ladder) Len() int { return len(l.levels) }
