package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/brightpath-edu/placement-engine/internal/curriculum"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id,exam_id,user_id,timer_minutes,started_at,completed_at,original_level_id,final_level_id,adjustment_count)
		 VALUES ($1,$2,$3,$4,$5,NULL,$6,$7,0)`,
		sess.ID, sess.ExamID, sess.UserID, sess.TimerMinutes, sess.StartedAt.Unix(),
		sess.OriginalLevelID, sess.FinalLevelID)
	return err
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,exam_id,user_id,timer_minutes,started_at,completed_at,original_level_id,final_level_id,adjustment_count
		 FROM sessions WHERE id=$1`, id)
	var sess Session
	var started int64
	var completed sql.NullInt64
	if err := row.Scan(&sess.ID, &sess.ExamID, &sess.UserID, &sess.TimerMinutes, &started,
		&completed, &sess.OriginalLevelID, &sess.FinalLevelID, &sess.AdjustmentCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	sess.StartedAt = time.Unix(started, 0)
	if completed.Valid {
		t := time.Unix(completed.Int64, 0)
		sess.CompletedAt = &t
	}
	return sess, nil
}

// Complete is a single guarded update so concurrent force-completes cannot
// both win; only the call that flips NULL reports true.
func (s *SQLStore) Complete(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET completed_at=$1 WHERE id=$2 AND completed_at IS NULL`,
		at.Unix(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		// Distinguish "already completed" from "no such session".
		if _, err := s.GetSession(ctx, id); err != nil {
			return false, err
		}
	}
	return n > 0, nil
}

func (s *SQLStore) UpsertAnswer(ctx context.Context, a Answer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (session_id,question_id,raw,question_type,points_possible,points_earned,is_correct,graded_at,graded_by)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (session_id,question_id) DO UPDATE SET
		   raw=EXCLUDED.raw, question_type=EXCLUDED.question_type,
		   points_possible=EXCLUDED.points_possible, points_earned=EXCLUDED.points_earned,
		   is_correct=EXCLUDED.is_correct, graded_at=EXCLUDED.graded_at, graded_by=EXCLUDED.graded_by`,
		a.SessionID, a.QuestionID, a.Raw, a.QuestionType, a.PointsPossible, a.PointsEarned,
		a.Correct, a.GradedAt.Unix(), a.GradedBy)
	return err
}

func (s *SQLStore) Answers(ctx context.Context, sessionID string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id,question_id,raw,question_type,points_possible,points_earned,is_correct,graded_at,graded_by
		 FROM answers WHERE session_id=$1 ORDER BY question_id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) ApplyAdjustment(ctx context.Context, adj Adjustment, newExamID string, newCount int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE sessions SET final_level_id=$1, exam_id=$2, adjustment_count=$3 WHERE id=$4`,
		adj.ToLevelID, newExamID, newCount, adj.SessionID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO adjustments (id,session_id,direction,from_level_id,to_level_id,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		adj.ID, adj.SessionID, string(adj.Direction), adj.FromLevelID, adj.ToLevelID, adj.CreatedAt.Unix()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) Adjustments(ctx context.Context, sessionID string) ([]Adjustment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,session_id,direction,from_level_id,to_level_id,created_at
		 FROM adjustments WHERE session_id=$1 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Adjustment
	for rows.Next() {
		var adj Adjustment
		var dir string
		var created int64
		if err := rows.Scan(&adj.ID, &adj.SessionID, &dir, &adj.FromLevelID, &adj.ToLevelID, &created); err != nil {
			return nil, err
		}
		adj.Direction = curriculum.Direction(dir)
		adj.CreatedAt = time.Unix(created, 0)
		out = append(out, adj)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetManualGrade(ctx context.Context, sessionID, questionID string, in ManualGradeInput, gradedBy string, at time.Time) (Answer, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE answers SET points_earned=$1, is_correct=$2, graded_at=$3, graded_by=$4
		 WHERE session_id=$5 AND question_id=$6`,
		in.Points, in.Correct, at.Unix(), gradedBy, sessionID, questionID)
	if err != nil {
		return Answer{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Answer{}, ErrNoAnswer
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id,question_id,raw,question_type,points_possible,points_earned,is_correct,graded_at,graded_by
		 FROM answers WHERE session_id=$1 AND question_id=$2`, sessionID, questionID)
	return scanAnswer(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row rowScanner) (Answer, error) {
	var a Answer
	var correct sql.NullBool
	var gradedAt int64
	if err := row.Scan(&a.SessionID, &a.QuestionID, &a.Raw, &a.QuestionType, &a.PointsPossible,
		&a.PointsEarned, &correct, &gradedAt, &a.GradedBy); err != nil {
		return Answer{}, err
	}
	if correct.Valid {
		v := correct.Bool
		a.Correct = &v
	}
	a.GradedAt = time.Unix(gradedAt, 0)
	return a, nil
}
