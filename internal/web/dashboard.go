package web

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/quizhall/quizhall/internal/store"
	"github.com/quizhall/quizhall/pkg/cache"
)

// Dashboard aggregates are recomputed from the store at most once per TTL;
// the submit path invalidates the key so a fresh attempt shows up
// immediately.
const dashboardTTL = time.Minute

type dashboardStats struct {
	TotalQuizzes int `json:"totalQuizzes"`
	AverageScore int `json:"averageScore"`
	TotalModules int `json:"totalModules"`
	Streak       int `json:"streak"`
}

type moduleProgressView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Icon             string `json:"icon"`
	Progress         int    `json:"progress"`
	CompletedQuizzes int    `json:"completedQuizzes"`
	TotalQuizzes     int    `json:"totalQuizzes"`
	AverageScore     int    `json:"averageScore"`
	BestScore        int    `json:"bestScore"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

type attemptView struct {
	ID               string  `json:"id"`
	AttemptNumber    int     `json:"attemptNumber"`
	Date             string  `json:"date"`
	Score            float64 `json:"score"`
	TimeSpentSeconds int     `json:"timeSpentSeconds"`
}

type attemptGroup struct {
	ModuleID   string        `json:"moduleId"`
	ModuleName string        `json:"moduleName"`
	QuizKey    string        `json:"quizKey"`
	QuizTitle  string        `json:"quizTitle"`
	Attempts   []attemptView `json:"attempts"`
}

type userAnalytics struct {
	TotalQuizzes     int `json:"totalQuizzes"`
	TotalTimeSeconds int `json:"totalTimeSeconds"`
	AvgScore         int `json:"avgScore"`
	BestScore        int `json:"bestScore"`
}

type moduleAnalytics struct {
	Module        string `json:"module"`
	AvgScore      int    `json:"avgScore"`
	BestScore     int    `json:"bestScore"`
	TotalAttempts int    `json:"totalAttempts"`
}

type dashboardView struct {
	Stats           dashboardStats       `json:"stats"`
	Modules         []moduleProgressView `json:"modules"`
	Recent          []attemptGroup       `json:"recent"`
	Analytics       userAnalytics        `json:"analytics"`
	ModuleAnalytics []moduleAnalytics    `json:"moduleAnalytics"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := sessionUser(r)
	key := cache.DashboardKey(user.ID)

	if raw, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		var view dashboardView
		if err := json.Unmarshal(raw, &view); err == nil {
			s.renderDashboard(w, r, view)
			return
		}
	} else if err != nil {
		log.Printf("dashboard cache get: %v", err)
	}

	view, err := s.buildDashboard(r, user.ID)
	if err != nil {
		log.Printf("dashboard for %s: %v", user.ID, err)
		s.render.Error(w, http.StatusInternalServerError, "Could not load your dashboard.")
		return
	}
	if raw, err := json.Marshal(view); err == nil {
		if err := s.cache.Set(r.Context(), key, raw, dashboardTTL); err != nil {
			log.Printf("dashboard cache set: %v", err)
		}
	}
	s.renderDashboard(w, r, view)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, view dashboardView) {
	s.render.Render(w, http.StatusOK, "dashboard.html", map[string]any{
		"Title":     "Dashboard",
		"User":      sessionUser(r),
		"Dashboard": view,
	})
}

func (s *Server) buildDashboard(r *http.Request, userID string) (dashboardView, error) {
	ctx := r.Context()

	modules, err := s.store.ListModules(ctx)
	if err != nil {
		return dashboardView{}, err
	}
	progressRows, err := s.store.ListProgressByUser(ctx, userID)
	if err != nil {
		return dashboardView{}, err
	}
	recent, err := s.store.ListRecentByUser(ctx, userID, 30)
	if err != nil {
		return dashboardView{}, err
	}
	allProgress, err := s.store.ListAllProgress(ctx)
	if err != nil {
		return dashboardView{}, err
	}

	byModule := make(map[string]store.ProgressRow, len(progressRows))
	for _, p := range progressRows {
		byModule[p.ModuleID] = p
	}

	view := dashboardView{}

	// Per-module cards: every module shows, zeroed when untouched.
	var scoreSum float64
	var scored int
	for _, m := range modules {
		p := byModule[m.ID]
		total := p.TotalQuizzes
		if total == 0 {
			total = m.TotalQuizzes
		}
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(p.QuizzesCompleted) / float64(total) * 100))
		}
		view.Modules = append(view.Modules, moduleProgressView{
			ID:               m.ID,
			Name:             m.DisplayName,
			Icon:             m.Icon,
			Progress:         pct,
			CompletedQuizzes: p.QuizzesCompleted,
			TotalQuizzes:     total,
			AverageScore:     int(math.Round(p.AverageScorePercentage)),
			BestScore:        int(math.Round(p.BestScorePercentage)),
			TimeSpentSeconds: p.TotalTimeSpentSeconds,
		})
		view.Stats.TotalQuizzes += p.QuizzesCompleted
		if p.TotalAttempts > 0 {
			scoreSum += p.AverageScorePercentage
			scored++
		}
	}
	view.Stats.TotalModules = len(modules)
	if scored > 0 {
		view.Stats.AverageScore = int(math.Round(scoreSum / float64(scored)))
	}

	// Recent attempts grouped per quiz, newest quiz group first.
	groupIdx := map[string]int{}
	for _, a := range recent {
		i, ok := groupIdx[a.QuizID]
		if !ok {
			i = len(view.Recent)
			groupIdx[a.QuizID] = i
			view.Recent = append(view.Recent, attemptGroup{
				ModuleID:   a.ModuleID,
				ModuleName: a.ModuleName,
				QuizKey:    a.QuizID,
				QuizTitle:  a.QuizTitle,
			})
		}
		view.Recent[i].Attempts = append(view.Recent[i].Attempts, attemptView{
			ID:               a.ID,
			AttemptNumber:    a.AttemptNumber,
			Date:             time.Unix(a.CreatedAt, 0).Format("2006-01-02"),
			Score:            a.ScorePercentage,
			TimeSpentSeconds: a.TimeSpentSeconds,
		})
	}

	// Personal analytics over all module summaries.
	for _, p := range progressRows {
		view.Analytics.TotalQuizzes += p.QuizzesCompleted
		view.Analytics.TotalTimeSeconds += p.TotalTimeSpentSeconds
		if p.BestScorePercentage > float64(view.Analytics.BestScore) {
			view.Analytics.BestScore = int(math.Round(p.BestScorePercentage))
		}
	}
	if len(progressRows) > 0 {
		var sum float64
		for _, p := range progressRows {
			sum += p.AverageScorePercentage
		}
		view.Analytics.AvgScore = int(math.Round(sum / float64(len(progressRows))))
	}

	// Cross-user module analytics.
	for _, m := range modules {
		var rows []store.ProgressRow
		for _, p := range allProgress {
			if p.ModuleID == m.ID {
				rows = append(rows, p)
			}
		}
		ma := moduleAnalytics{Module: m.DisplayName}
		if len(rows) > 0 {
			var sum, best float64
			for _, p := range rows {
				sum += p.AverageScorePercentage
				if p.BestScorePercentage > best {
					best = p.BestScorePercentage
				}
				ma.TotalAttempts += p.TotalAttempts
			}
			ma.AvgScore = int(math.Round(sum / float64(len(rows))))
			ma.BestScore = int(math.Round(best))
		}
		view.ModuleAnalytics = append(view.ModuleAnalytics, ma)
	}

	return view, nil
}
