// Package progress folds completed quiz attempts into the derived aggregates
// the dashboard and leaderboard render. All folds are pure: they take the
// authoritative attempt set and recompute every output field, so running one
// twice on the same input yields identical results and the persisted rows can
// always be rebuilt by replay.
package progress

// Attempt is a minimal view of a completed attempt needed for aggregation.
type Attempt struct {
	QuizID           string
	ScorePercentage  float64
	TimeSpentSeconds int
}

// Summary is the per-(user, module) aggregate. It holds no information the
// attempt set doesn't.
type Summary struct {
	QuizzesCompleted      int
	TotalQuizzes          int
	BestScore             float64
	AverageScore          float64
	TotalAttempts         int
	TotalTimeSpentSeconds int
}

// Summarize recomputes a module summary from every completed attempt a user
// has across that module's quizzes. Retries count toward the average and the
// attempt total; each quiz counts once toward completion. An empty attempt
// set yields a zeroed summary rather than an error, so a row can still be
// written for users with no attempts yet.
func Summarize(attempts []Attempt, totalQuizzes int) Summary {
	s := Summary{TotalQuizzes: totalQuizzes}
	if len(attempts) == 0 {
		return s
	}

	quizzes := make(map[string]struct{}, len(attempts))
	var sum float64
	for _, a := range attempts {
		quizzes[a.QuizID] = struct{}{}
		if a.ScorePercentage > s.BestScore {
			s.BestScore = a.ScorePercentage
		}
		sum += a.ScorePercentage
		s.TotalTimeSpentSeconds += a.TimeSpentSeconds
	}
	s.QuizzesCompleted = len(quizzes)
	s.TotalAttempts = len(attempts)
	s.AverageScore = sum / float64(len(attempts))
	return s
}
