package store

import (
	"context"

	"github.com/quizhall/quizhall/internal/progress"
	"github.com/quizhall/quizhall/internal/quiz"
)

// User is a local account row.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	AvatarURL    string
	CreatedAt    int64
}

// Module mirrors the modules table.
type Module struct {
	ID           string
	DisplayName  string
	Icon         string
	TotalQuizzes int
}

// Quiz mirrors the quizzes table. ID is the catalog key "<module>/<number>".
type Quiz struct {
	ID             string
	ModuleID       string
	Number         int
	Title          string
	TotalQuestions int
	Active         bool
}

// Attempt is one immutable run of a user through a quiz. Rows are created
// once and never mutated; retries insert new rows with the next
// attempt_number. ModuleID, QuizTitle and ModuleName are joined in for list
// views.
type Attempt struct {
	ID               string
	UserID           string
	QuizID           string
	ModuleID         string
	QuizTitle        string
	ModuleName       string
	AttemptNumber    int
	TotalQuestions   int
	CorrectAnswers   int
	ScorePercentage  float64
	TimeSpentSeconds int
	Completed        bool
	ReviewJSON       string
	CreatedAt        int64
}

// ProgressRow mirrors the user_progress table, the materialized per
// (user, module) aggregate.
type ProgressRow struct {
	UserID                 string
	ModuleID               string
	QuizzesCompleted       int
	TotalQuizzes           int
	BestScorePercentage    float64
	AverageScorePercentage float64
	TotalAttempts          int
	TotalTimeSpentSeconds  int
	LastActivity           int64
	UpdatedAt              int64
}

// Store is the persistence boundary the web layer talks to.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash, fullName string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)

	SyncCatalog(ctx context.Context, c *quiz.Catalog) error
	ListModules(ctx context.Context) ([]Module, error)
	CountActiveQuizzes(ctx context.Context, moduleID string) (int, error)

	InsertAttempt(ctx context.Context, a Attempt) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	ListCompletedByUserAndModule(ctx context.Context, userID, moduleID string) ([]Attempt, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]Attempt, error)
	ListAllCompleted(ctx context.Context) ([]Attempt, error)

	UpsertProgress(ctx context.Context, userID, moduleID string, s progress.Summary, now int64) error
	ListProgressByUser(ctx context.Context, userID string) ([]ProgressRow, error)
	ListAllProgress(ctx context.Context) ([]ProgressRow, error)
}
