package web

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizhall/quizhall/internal/auth"
)

type pageUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func sessionUser(r *http.Request) pageUser {
	c := auth.UserFromContext(r.Context())
	if c == nil {
		return pageUser{}
	}
	return pageUser{ID: c.Sub, Name: c.Name}
}

type moduleCard struct {
	ID          string
	DisplayName string
	Icon        string
	QuizCount   int
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	cards := make([]moduleCard, 0, len(s.catalog.Modules))
	for _, m := range s.catalog.Modules {
		cards = append(cards, moduleCard{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Icon:        m.Icon,
			QuizCount:   len(m.Quizzes),
		})
	}
	s.render.Render(w, http.StatusOK, "home.html", map[string]any{
		"Title":   "Home",
		"User":    sessionUser(r),
		"Modules": cards,
	})
}

type quizRow struct {
	Key       string
	Number    int
	Title     string
	Questions int
	Attempts  int
	BestScore float64
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	m, ok := s.catalog.Module(chi.URLParam(r, "moduleID"))
	if !ok {
		s.render.Error(w, http.StatusNotFound, "Module not found.")
		return
	}
	user := sessionUser(r)

	attempts, err := s.store.ListCompletedByUserAndModule(r.Context(), user.ID, m.ID)
	if err != nil {
		log.Printf("module %s attempts: %v", m.ID, err)
		s.render.Error(w, http.StatusInternalServerError, "Could not load your attempts.")
		return
	}
	taken := map[string]struct {
		count int
		best  float64
	}{}
	for _, a := range attempts {
		t := taken[a.QuizID]
		t.count++
		if a.ScorePercentage > t.best {
			t.best = a.ScorePercentage
		}
		taken[a.QuizID] = t
	}

	rows := make([]quizRow, 0, len(m.Quizzes))
	for _, q := range m.Quizzes {
		t := taken[q.Key]
		rows = append(rows, quizRow{
			Key:       q.Key,
			Number:    q.Number,
			Title:     q.Title,
			Questions: len(q.Questions),
			Attempts:  t.count,
			BestScore: t.best,
		})
	}
	s.render.Render(w, http.StatusOK, "module.html", map[string]any{
		"Title":   m.DisplayName,
		"User":    user,
		"Module":  m,
		"Quizzes": rows,
	})
}
