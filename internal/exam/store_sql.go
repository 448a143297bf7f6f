package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	created := e.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,level_id,title,timer_minutes,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET level_id=EXCLUDED.level_id, title=EXCLUDED.title,
			timer_minutes=EXCLUDED.timer_minutes, questions_json=EXCLUDED.questions_json`,
		e.ID, e.LevelID, e.Title, e.TimerMinutes, string(qj), created)
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	e, err := s.GetExamAdmin(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	return stripKeys(e), nil
}

func (s *SQLStore) GetExamAdmin(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,level_id,title,timer_minutes,questions_json,created_at FROM exams WHERE id=$1`, id)
	return scanExam(row)
}

func (s *SQLStore) ExamForLevel(ctx context.Context, levelID string) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,level_id,title,timer_minutes,questions_json,created_at FROM exams
		 WHERE level_id=$1 ORDER BY created_at DESC LIMIT 1`, levelID)
	return scanExam(row)
}

func (s *SQLStore) AllExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,level_id,title,timer_minutes,questions_json,created_at FROM exams`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Exam
	for rows.Next() {
		var e Exam
		var qjson string
		if err := rows.Scan(&e.ID, &e.LevelID, &e.Title, &e.TimerMinutes, &qjson, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (Exam, error) {
	var e Exam
	var qjson string
	if err := row.Scan(&e.ID, &e.LevelID, &e.Title, &e.TimerMinutes, &qjson, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, err
	}
	return e, nil
}
