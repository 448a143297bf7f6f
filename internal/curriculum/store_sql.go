package curriculum

import (
	"context"
	"database/sql"
)

// LoadLadder reads the full hierarchy and builds the cached total order.
func LoadLadder(ctx context.Context, db *sql.DB) (*Ladder, error) {
	programs, err := loadPrograms(ctx, db)
	if err != nil {
		return nil, err
	}
	subs, err := loadSubPrograms(ctx, db)
	if err != nil {
		return nil, err
	}
	levels, err := loadLevels(ctx, db)
	if err != nil {
		return nil, err
	}
	return BuildLadder(programs, subs, levels)
}

func loadPrograms(ctx context.Context, db *sql.DB) ([]Program, error) {
	rows, err := db.QueryContext(ctx, `SELECT id,name,position FROM programs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Program
	for rows.Next() {
		var p Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Position); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadSubPrograms(ctx context.Context, db *sql.DB) ([]SubProgram, error) {
	rows, err := db.QueryContext(ctx, `SELECT id,program_id,name,position FROM subprograms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SubProgram
	for rows.Next() {
		var s SubProgram
		if err := rows.Scan(&s.ID, &s.ProgramID, &s.Name, &s.Position); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func loadLevels(ctx context.Context, db *sql.DB) ([]Level, error) {
	rows, err := db.QueryContext(ctx, `SELECT id,subprogram_id,level_number,name FROM levels`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Level
	for rows.Next() {
		var l Level
		if err := rows.Scan(&l.ID, &l.SubProgramID, &l.Number, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
