package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizhall/quizhall/internal/progress"
	"github.com/quizhall/quizhall/internal/quiz"
)

// ErrNotFound is returned for lookups that match no row.
var ErrNotFound = errors.New("not found")

// SQLStore implements Store over database/sql. Placeholders use the $n form,
// which both the pgx stdlib driver and modernc sqlite accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

/* ---- users ---- */

func (s *SQLStore) CreateUser(ctx context.Context, email, passwordHash, fullName string) (User, error) {
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		CreatedAt:    time.Now().Unix(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id,email,password_hash,full_name,avatar_url,created_at) VALUES ($1,$2,$3,$4,'',$5)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id,email,password_hash,full_name,avatar_url,created_at FROM users WHERE email=$1`, email))
}

func (s *SQLStore) GetUserByID(ctx context.Context, id string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id,email,password_hash,full_name,avatar_url,created_at FROM users WHERE id=$1`, id))
}

func (s *SQLStore) scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.AvatarURL, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,email,password_hash,full_name,avatar_url,created_at FROM users ORDER BY full_name, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.AvatarURL, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

/* ---- catalog ---- */

// SyncCatalog upserts the on-disk catalog into modules/quizzes. Quizzes that
// disappeared from disk are deactivated, not deleted, so their attempt
// history stays intact.
func (s *SQLStore) SyncCatalog(ctx context.Context, c *quiz.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE quizzes SET is_active=FALSE`); err != nil {
		return fmt.Errorf("deactivate quizzes: %w", err)
	}
	for _, m := range c.Modules {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO modules (id,display_name,icon,total_quizzes) VALUES ($1,$2,$3,$4)
			 ON CONFLICT (id) DO UPDATE SET display_name=EXCLUDED.display_name, icon=EXCLUDED.icon, total_quizzes=EXCLUDED.total_quizzes`,
			m.ID, m.DisplayName, m.Icon, len(m.Quizzes))
		if err != nil {
			return fmt.Errorf("upsert module %s: %w", m.ID, err)
		}
		for _, q := range m.Quizzes {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO quizzes (id,module_id,quiz_number,title,total_questions,is_active) VALUES ($1,$2,$3,$4,$5,TRUE)
				 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, total_questions=EXCLUDED.total_questions, is_active=TRUE`,
				q.Key, q.ModuleID, q.Number, q.Title, len(q.Questions))
			if err != nil {
				return fmt.Errorf("upsert quiz %s: %w", q.Key, err)
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ListModules(ctx context.Context) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,display_name,icon,total_quizzes FROM modules ORDER BY display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Icon, &m.TotalQuizzes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountActiveQuizzes(ctx context.Context, moduleID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quizzes WHERE module_id=$1 AND is_active=TRUE`, moduleID).Scan(&n)
	return n, err
}

/* ---- attempts ---- */

// InsertAttempt records a fully graded attempt. The attempt number is the
// per-(user, quiz) count plus one, read inside the same transaction as the
// insert. Attempt rows are append-only: nothing here or elsewhere updates
// them.
func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var prior int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_attempts WHERE user_id=$1 AND quiz_id=$2`,
		a.UserID, a.QuizID).Scan(&prior); err != nil {
		return Attempt{}, fmt.Errorf("count attempts: %w", err)
	}

	a.ID = uuid.NewString()
	a.AttemptNumber = prior + 1
	a.CreatedAt = time.Now().Unix()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO quiz_attempts
		 (id,user_id,quiz_id,attempt_number,total_questions,correct_answers,score_percentage,time_spent_seconds,is_completed,review_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.UserID, a.QuizID, a.AttemptNumber, a.TotalQuestions, a.CorrectAnswers,
		a.ScorePercentage, a.TimeSpentSeconds, a.Completed, a.ReviewJSON, a.CreatedAt)
	if err != nil {
		return Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

const attemptCols = `a.id, a.user_id, a.quiz_id, q.module_id, q.title, m.display_name,
	a.attempt_number, a.total_questions, a.correct_answers, a.score_percentage,
	a.time_spent_seconds, a.is_completed, a.review_json, a.created_at`

const attemptFrom = ` FROM quiz_attempts a
	JOIN quizzes q ON q.id = a.quiz_id
	JOIN modules m ON m.id = q.module_id`

func scanAttempt(sc interface{ Scan(...any) error }) (Attempt, error) {
	var a Attempt
	err := sc.Scan(&a.ID, &a.UserID, &a.QuizID, &a.ModuleID, &a.QuizTitle, &a.ModuleName,
		&a.AttemptNumber, &a.TotalQuestions, &a.CorrectAnswers, &a.ScorePercentage,
		&a.TimeSpentSeconds, &a.Completed, &a.ReviewJSON, &a.CreatedAt)
	return a, err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx, `SELECT `+attemptCols+attemptFrom+` WHERE a.id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrNotFound
	}
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) queryAttempts(ctx context.Context, query string, args ...any) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListCompletedByUserAndModule(ctx context.Context, userID, moduleID string) ([]Attempt, error) {
	return s.queryAttempts(ctx,
		`SELECT `+attemptCols+attemptFrom+
			` WHERE a.user_id=$1 AND q.module_id=$2 AND a.is_completed=TRUE ORDER BY a.created_at`,
		userID, moduleID)
}

func (s *SQLStore) ListRecentByUser(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queryAttempts(ctx,
		`SELECT `+attemptCols+attemptFrom+
			` WHERE a.user_id=$1 AND a.is_completed=TRUE ORDER BY a.created_at DESC LIMIT $2`,
		userID, limit)
}

// ListAllCompleted returns every completed attempt oldest-first, the order
// the leaderboard fold expects.
func (s *SQLStore) ListAllCompleted(ctx context.Context) ([]Attempt, error) {
	return s.queryAttempts(ctx,
		`SELECT `+attemptCols+attemptFrom+` WHERE a.is_completed=TRUE ORDER BY a.created_at`)
}

/* ---- progress ---- */

// UpsertProgress overwrites the full (user, module) summary row. Every field
// is recomputed from the attempt set, so a partial merge is never correct.
func (s *SQLStore) UpsertProgress(ctx context.Context, userID, moduleID string, p progress.Summary, now int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_progress
		 (user_id,module_id,quizzes_completed,total_quizzes,best_score_percentage,average_score_percentage,total_attempts,total_time_spent_seconds,last_activity,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		 ON CONFLICT (user_id,module_id) DO UPDATE SET
		   quizzes_completed=EXCLUDED.quizzes_completed,
		   total_quizzes=EXCLUDED.total_quizzes,
		   best_score_percentage=EXCLUDED.best_score_percentage,
		   average_score_percentage=EXCLUDED.average_score_percentage,
		   total_attempts=EXCLUDED.total_attempts,
		   total_time_spent_seconds=EXCLUDED.total_time_spent_seconds,
		   last_activity=EXCLUDED.last_activity,
		   updated_at=EXCLUDED.updated_at`,
		userID, moduleID, p.QuizzesCompleted, p.TotalQuizzes, p.BestScore, p.AverageScore,
		p.TotalAttempts, p.TotalTimeSpentSeconds, now)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

const progressCols = `user_id,module_id,quizzes_completed,total_quizzes,best_score_percentage,
	average_score_percentage,total_attempts,total_time_spent_seconds,last_activity,updated_at`

func (s *SQLStore) queryProgress(ctx context.Context, query string, args ...any) ([]ProgressRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProgressRow
	for rows.Next() {
		var p ProgressRow
		if err := rows.Scan(&p.UserID, &p.ModuleID, &p.QuizzesCompleted, &p.TotalQuizzes,
			&p.BestScorePercentage, &p.AverageScorePercentage, &p.TotalAttempts,
			&p.TotalTimeSpentSeconds, &p.LastActivity, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListProgressByUser(ctx context.Context, userID string) ([]ProgressRow, error) {
	return s.queryProgress(ctx,
		`SELECT `+progressCols+` FROM user_progress WHERE user_id=$1`, userID)
}

func (s *SQLStore) ListAllProgress(ctx context.Context) ([]ProgressRow, error) {
	return s.queryProgress(ctx, `SELECT `+progressCols+` FROM user_progress`)
}
