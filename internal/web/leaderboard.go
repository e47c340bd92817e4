package web

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/quizhall/quizhall/internal/progress"
	"github.com/quizhall/quizhall/pkg/cache"
)

const leaderboardTTL = time.Minute

type leaderboardRow struct {
	Rank             int     `json:"rank"`
	Name             string  `json:"name"`
	Marks            float64 `json:"marks"`
	QuizzesCompleted int     `json:"quizzesCompleted"`
	AverageScore     int     `json:"averageScore"`
	TimeSpentSeconds int     `json:"timeSpentSeconds"`
	LastActive       int64   `json:"lastActive"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	var rows []leaderboardRow

	if raw, ok, err := s.cache.Get(r.Context(), cache.LeaderboardKey); err == nil && ok {
		if err := json.Unmarshal(raw, &rows); err == nil {
			s.renderLeaderboard(w, r, rows)
			return
		}
	} else if err != nil {
		log.Printf("leaderboard cache get: %v", err)
	}

	rows, err := s.buildLeaderboard(r)
	if err != nil {
		log.Printf("leaderboard: %v", err)
		s.render.Error(w, http.StatusInternalServerError, "Could not load the leaderboard.")
		return
	}
	if raw, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(r.Context(), cache.LeaderboardKey, raw, leaderboardTTL); err != nil {
			log.Printf("leaderboard cache set: %v", err)
		}
	}
	s.renderLeaderboard(w, r, rows)
}

func (s *Server) renderLeaderboard(w http.ResponseWriter, r *http.Request, rows []leaderboardRow) {
	s.render.Render(w, http.StatusOK, "leaderboard.html", map[string]any{
		"Title": "Leaderboard",
		"User":  sessionUser(r),
		"Rows":  rows,
	})
}

// buildLeaderboard ranks users by summed first-attempt score. Retries are
// excluded here on purpose even though module progress counts them; see
// progress.Leaderboard.
func (s *Server) buildLeaderboard(r *http.Request) ([]leaderboardRow, error) {
	ctx := r.Context()

	attempts, err := s.store.ListAllCompleted(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		name := u.FullName
		if name == "" {
			name = u.Email
		}
		names[u.ID] = name
	}

	ranked := make([]progress.RankedAttempt, len(attempts))
	for i, a := range attempts {
		ranked[i] = progress.RankedAttempt{
			UserID:           a.UserID,
			QuizID:           a.QuizID,
			ScorePercentage:  a.ScorePercentage,
			TimeSpentSeconds: a.TimeSpentSeconds,
			StartedAt:        a.CreatedAt,
		}
	}

	standings := progress.Leaderboard(ranked)
	rows := make([]leaderboardRow, len(standings))
	for i, st := range standings {
		rows[i] = leaderboardRow{
			Rank:             i + 1,
			Name:             names[st.UserID],
			Marks:            st.Marks,
			QuizzesCompleted: st.QuizzesCompleted,
			AverageScore:     int(math.Round(st.AverageScore)),
			TimeSpentSeconds: st.TimeSpentSeconds,
			LastActive:       st.LastActive,
		}
	}
	return rows, nil
}
