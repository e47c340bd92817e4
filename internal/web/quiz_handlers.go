package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quizhall/quizhall/internal/grading"
	"github.com/quizhall/quizhall/internal/progress"
	"github.com/quizhall/quizhall/internal/quiz"
	"github.com/quizhall/quizhall/internal/store"
	"github.com/quizhall/quizhall/pkg/cache"
)

func (s *Server) quizFromRequest(r *http.Request) (*quiz.Quiz, bool) {
	key := chi.URLParam(r, "moduleID") + "/" + chi.URLParam(r, "num")
	return s.catalog.Quiz(key)
}

func (s *Server) handleQuizPage(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizFromRequest(r)
	if !ok {
		s.render.Error(w, http.StatusNotFound, "Quiz not found.")
		return
	}
	s.render.Render(w, http.StatusOK, "quiz.html", map[string]any{
		"Title": q.Title,
		"User":  sessionUser(r),
		"Quiz":  q,
	})
}

// handleQuizSubmit grades a submission, records the attempt, recomputes the
// module summary and renders the results page. The attempt insert is the
// commit point: if it fails the user sees an error, not a success page.
func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	q, ok := s.quizFromRequest(r)
	if !ok {
		s.render.Error(w, http.StatusNotFound, "Quiz not found.")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.render.Error(w, http.StatusBadRequest, "Could not read your submission.")
		return
	}
	user := sessionUser(r)
	timeSpent := r.FormValue("timeSpent")
	if timeSpent == "" {
		timeSpent = "0:00"
	}

	answers := parseAnswers(r, len(q.Questions))
	result := grading.Grade(q.GradingView(), answers, timeSpent)

	review, err := json.Marshal(result)
	if err != nil {
		log.Printf("marshal review: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Could not record your attempt.")
		return
	}
	attempt, err := s.store.InsertAttempt(r.Context(), store.Attempt{
		UserID:           user.ID,
		QuizID:           q.Key,
		TotalQuestions:   result.TotalQuestions,
		CorrectAnswers:   result.CorrectCount,
		ScorePercentage:  float64(result.Percentage),
		TimeSpentSeconds: parseClock(timeSpent),
		Completed:        true,
		ReviewJSON:       string(review),
	})
	if err != nil {
		log.Printf("insert attempt: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Could not record your attempt. Your answers were not saved.")
		return
	}

	// The summary is derived state: a failed recompute is logged, not
	// surfaced, and the next submission will rebuild it from the full
	// attempt set.
	if err := s.recomputeProgress(r, user.ID, q.ModuleID); err != nil {
		log.Printf("recompute progress for %s/%s: %v", user.ID, q.ModuleID, err)
	}
	if err := s.cache.Invalidate(r.Context(), cache.DashboardKey(user.ID), cache.LeaderboardKey); err != nil {
		log.Printf("cache invalidate: %v", err)
	}

	s.render.Render(w, http.StatusOK, "results.html", map[string]any{
		"Title":     q.Title + " Results",
		"User":      user,
		"Quiz":      q,
		"Results":   result,
		"AttemptID": attempt.ID,
		"RetakeURL": "/quiz/" + q.Key,
	})
}

func (s *Server) recomputeProgress(r *http.Request, userID, moduleID string) error {
	ctx := r.Context()
	attempts, err := s.store.ListCompletedByUserAndModule(ctx, userID, moduleID)
	if err != nil {
		return fmt.Errorf("list attempts: %w", err)
	}
	total, err := s.store.CountActiveQuizzes(ctx, moduleID)
	if err != nil {
		return fmt.Errorf("count quizzes: %w", err)
	}

	set := make([]progress.Attempt, len(attempts))
	var latest int64
	for i, a := range attempts {
		set[i] = progress.Attempt{
			QuizID:           a.QuizID,
			ScorePercentage:  a.ScorePercentage,
			TimeSpentSeconds: a.TimeSpentSeconds,
		}
		if a.CreatedAt > latest {
			latest = a.CreatedAt
		}
	}
	return s.store.UpsertProgress(ctx, userID, moduleID, progress.Summarize(set, total), latest)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r)
	attempt, err := s.store.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && attempt.UserID != user.ID) {
		s.render.Error(w, http.StatusNotFound, "Attempt not found.")
		return
	}
	if err != nil {
		log.Printf("get attempt: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Could not load the attempt.")
		return
	}

	var result grading.Result
	if err := json.Unmarshal([]byte(attempt.ReviewJSON), &result); err != nil {
		log.Printf("review %s: corrupted snapshot: %v", attempt.ID, err)
		s.render.Error(w, http.StatusInternalServerError, "This attempt's review data is unreadable.")
		return
	}
	s.render.Render(w, http.StatusOK, "results.html", map[string]any{
		"Title":     attempt.QuizTitle + " Review",
		"User":      user,
		"Results":   result,
		"AttemptID": attempt.ID,
		"RetakeURL": "/quiz/" + attempt.QuizID,
	})
}

// parseAnswers reads the per-position radio fields answer_0..answer_{n-1}.
// Anything absent or non-numeric normalizes to the unanswered sentinel.
func parseAnswers(r *http.Request, n int) []int {
	answers := make([]int, n)
	for i := range answers {
		v := strings.TrimSpace(r.FormValue("answer_" + strconv.Itoa(i)))
		idx, err := strconv.Atoi(v)
		if err != nil {
			idx = grading.Unanswered
		}
		answers[i] = idx
	}
	return answers
}

// parseClock converts the "M:SS" display value the quiz timer submits into
// seconds. Bare second counts are accepted too; anything else is 0.
func parseClock(v string) int {
	if m, sec, ok := strings.Cut(v, ":"); ok {
		mi, err1 := strconv.Atoi(strings.TrimSpace(m))
		si, err2 := strconv.Atoi(strings.TrimSpace(sec))
		if err1 != nil || err2 != nil || mi < 0 || si < 0 {
			return 0
		}
		return mi*60 + si
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
		return n
	}
	return 0
}
