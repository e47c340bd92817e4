package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/quizhall/quizhall/internal/db"
	"github.com/quizhall/quizhall/internal/progress"
	"github.com/quizhall/quizhall/internal/quiz"
	"github.com/quizhall/quizhall/internal/store"
)

func newTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return store.NewSQLStore(dbh)
}

func testCatalog(quizzesPerModule int) *quiz.Catalog {
	questions := []quiz.Question{
		{ID: "q1", Text: "1+1?", Options: []string{"1", "2"}, CorrectAnswer: 1},
		{ID: "q2", Text: "2+2?", Options: []string{"4", "5"}, CorrectAnswer: 0},
	}
	m := quiz.Module{ID: "networking", DisplayName: "Networking", Icon: "fa-net"}
	for n := 1; n <= quizzesPerModule; n++ {
		m.Quizzes = append(m.Quizzes, quiz.Quiz{
			Key:       "networking/" + strconv.Itoa(n),
			ModuleID:  "networking",
			Number:    n,
			Title:     "Networking Quiz",
			Questions: questions,
		})
	}
	return &quiz.Catalog{Modules: []quiz.Module{m}}
}

func seed(t *testing.T, st *store.SQLStore, quizzes int) store.User {
	t.Helper()
	ctx := context.Background()
	if err := st.SyncCatalog(ctx, testCatalog(quizzes)); err != nil {
		t.Fatalf("sync catalog: %v", err)
	}
	u, err := st.CreateUser(ctx, "ada@example.com", "hash", "Ada Lovelace")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreateUser(ctx, "ada@example.com", "hash", "Ada Lovelace")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	byEmail, err := st.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("by email: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected user: %+v", byEmail)
	}

	if _, err := st.GetUserByID(ctx, created.ID); err != nil {
		t.Fatalf("by id: %v", err)
	}
	if _, err := st.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSyncCatalogDeactivatesRemovedQuizzes(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SyncCatalog(ctx, testCatalog(2)); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	n, err := st.CountActiveQuizzes(ctx, "networking")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("active quizzes = %d, want 2", n)
	}

	// Quiz 2 disappears from disk: it must be deactivated, not deleted.
	if err := st.SyncCatalog(ctx, testCatalog(1)); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	n, err = st.CountActiveQuizzes(ctx, "networking")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("active quizzes = %d, want 1", n)
	}

	mods, err := st.ListModules(ctx)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(mods) != 1 || mods[0].TotalQuizzes != 1 {
		t.Fatalf("unexpected modules: %+v", mods)
	}
}

func TestInsertAttemptNumbersSequentially(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := seed(t, st, 1)

	base := store.Attempt{
		UserID:           user.ID,
		QuizID:           "networking/1",
		TotalQuestions:   2,
		CorrectAnswers:   2,
		ScorePercentage:  100,
		TimeSpentSeconds: 30,
		Completed:        true,
		ReviewJSON:       "{}",
	}

	first, err := st.InsertAttempt(ctx, base)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := st.InsertAttempt(ctx, base)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.AttemptNumber != 1 || second.AttemptNumber != 2 {
		t.Fatalf("attempt numbers = %d, %d; want 1, 2", first.AttemptNumber, second.AttemptNumber)
	}

	other, err := st.CreateUser(ctx, "bob@example.com", "hash", "Bob")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	base.UserID = other.ID
	third, err := st.InsertAttempt(ctx, base)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if third.AttemptNumber != 1 {
		t.Fatalf("other user's first attempt = %d, want 1", third.AttemptNumber)
	}

	got, err := st.GetAttempt(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ModuleID != "networking" || got.ModuleName != "Networking" || got.QuizTitle != "Networking Quiz" {
		t.Fatalf("join columns missing: %+v", got)
	}
	if got.ScorePercentage != 100 || !got.Completed || got.ReviewJSON != "{}" {
		t.Fatalf("row mismatch: %+v", got)
	}
}

func TestListCompletedFiltersAndOrders(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := seed(t, st, 1)

	a := store.Attempt{
		UserID: user.ID, QuizID: "networking/1",
		TotalQuestions: 2, Completed: true, ScorePercentage: 50,
	}
	if _, err := st.InsertAttempt(ctx, a); err != nil {
		t.Fatalf("insert: %v", err)
	}
	a.Completed = false
	if _, err := st.InsertAttempt(ctx, a); err != nil {
		t.Fatalf("insert: %v", err)
	}

	done, err := st.ListCompletedByUserAndModule(ctx, user.ID, "networking")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(done) != 1 {
		t.Fatalf("completed attempts = %d, want 1", len(done))
	}

	all, err := st.ListAllCompleted(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("all completed = %d, want 1", len(all))
	}

	recent, err := st.ListRecentByUser(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("recent = %d, want 1", len(recent))
	}
}

func TestUpsertProgressOverwritesWholeRow(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	user := seed(t, st, 1)

	s1 := progress.Summary{QuizzesCompleted: 1, TotalQuizzes: 1, BestScore: 50, AverageScore: 50, TotalAttempts: 1, TotalTimeSpentSeconds: 30}
	if err := st.UpsertProgress(ctx, user.ID, "networking", s1, 1000); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	s2 := progress.Summary{QuizzesCompleted: 1, TotalQuizzes: 1, BestScore: 100, AverageScore: 75, TotalAttempts: 2, TotalTimeSpentSeconds: 60}
	if err := st.UpsertProgress(ctx, user.ID, "networking", s2, 2000); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := st.ListProgressByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("progress rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.BestScorePercentage != 100 || row.AverageScorePercentage != 75 ||
		row.TotalAttempts != 2 || row.TotalTimeSpentSeconds != 60 ||
		row.LastActivity != 2000 || row.UpdatedAt != 2000 {
		t.Fatalf("row not overwritten: %+v", row)
	}

	all, err := st.ListAllProgress(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("all progress = %d, want 1", len(all))
	}
}
