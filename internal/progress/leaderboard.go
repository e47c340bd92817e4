package progress

import "sort"

// RankedAttempt is the attempt view the leaderboard fold consumes. StartedAt
// orders retries so the first attempt per quiz can be identified.
type RankedAttempt struct {
	UserID           string
	QuizID           string
	ScorePercentage  float64
	TimeSpentSeconds int
	StartedAt        int64
}

// Standing is one leaderboard row.
type Standing struct {
	UserID           string
	Marks            float64
	QuizzesCompleted int
	AverageScore     float64
	TimeSpentSeconds int
	LastActive       int64
}

// Leaderboard ranks users by summed score across their first attempt per
// quiz. This is deliberately a different aggregation policy from Summarize:
// module progress counts every retry, the leaderboard only the first try, so
// replaying a quiz can never farm marks.
func Leaderboard(attempts []RankedAttempt) []Standing {
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].StartedAt < attempts[j].StartedAt
	})

	type key struct{ user, quiz string }
	firsts := make(map[key]RankedAttempt)
	order := make([]key, 0, len(attempts))
	for _, a := range attempts {
		k := key{a.UserID, a.QuizID}
		if _, seen := firsts[k]; seen {
			continue
		}
		firsts[k] = a
		order = append(order, k)
	}

	byUser := make(map[string]*Standing)
	users := []string{}
	for _, k := range order {
		a := firsts[k]
		st, ok := byUser[a.UserID]
		if !ok {
			st = &Standing{UserID: a.UserID}
			byUser[a.UserID] = st
			users = append(users, a.UserID)
		}
		st.Marks += a.ScorePercentage
		st.QuizzesCompleted++
		st.TimeSpentSeconds += a.TimeSpentSeconds
		if a.StartedAt > st.LastActive {
			st.LastActive = a.StartedAt
		}
	}

	out := make([]Standing, 0, len(users))
	for _, u := range users {
		st := byUser[u]
		if st.QuizzesCompleted > 0 {
			st.AverageScore = st.Marks / float64(st.QuizzesCompleted)
		}
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Marks != out[j].Marks {
			return out[i].Marks > out[j].Marks
		}
		return out[i].TimeSpentSeconds < out[j].TimeSpentSeconds
	})
	return out
}
