package progress

import "testing"

func TestLeaderboardFirstAttemptOnly(t *testing.T) {
	attempts := []RankedAttempt{
		{UserID: "u1", QuizID: "A", ScorePercentage: 60, TimeSpentSeconds: 100, StartedAt: 10},
		// Retry with a better score must not count.
		{UserID: "u1", QuizID: "A", ScorePercentage: 100, TimeSpentSeconds: 80, StartedAt: 20},
		{UserID: "u1", QuizID: "B", ScorePercentage: 80, TimeSpentSeconds: 50, StartedAt: 30},
		{UserID: "u2", QuizID: "A", ScorePercentage: 90, TimeSpentSeconds: 40, StartedAt: 15},
	}
	rows := Leaderboard(attempts)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// u1: 60+80 = 140 beats u2's 90.
	if rows[0].UserID != "u1" || rows[0].Marks != 140 {
		t.Fatalf("rows[0] = %+v, want u1 with 140 marks", rows[0])
	}
	if rows[0].QuizzesCompleted != 2 {
		t.Errorf("u1 quizzesCompleted = %d, want 2", rows[0].QuizzesCompleted)
	}
	if rows[0].AverageScore != 70 {
		t.Errorf("u1 averageScore = %v, want 70", rows[0].AverageScore)
	}
	if rows[0].TimeSpentSeconds != 150 {
		t.Errorf("u1 time = %d, want 150", rows[0].TimeSpentSeconds)
	}
	if rows[0].LastActive != 30 {
		t.Errorf("u1 lastActive = %d, want 30", rows[0].LastActive)
	}
	if rows[1].UserID != "u2" || rows[1].Marks != 90 {
		t.Fatalf("rows[1] = %+v, want u2 with 90 marks", rows[1])
	}
}

func TestLeaderboardUnsortedInput(t *testing.T) {
	// The fold must pick the earliest attempt even when rows arrive out of
	// order.
	attempts := []RankedAttempt{
		{UserID: "u1", QuizID: "A", ScorePercentage: 100, StartedAt: 50},
		{UserID: "u1", QuizID: "A", ScorePercentage: 40, StartedAt: 5},
	}
	rows := Leaderboard(attempts)
	if len(rows) != 1 || rows[0].Marks != 40 {
		t.Fatalf("rows = %+v, want single row with first-attempt marks 40", rows)
	}
}

func TestLeaderboardTieBreakByTime(t *testing.T) {
	attempts := []RankedAttempt{
		{UserID: "slow", QuizID: "A", ScorePercentage: 90, TimeSpentSeconds: 200, StartedAt: 1},
		{UserID: "fast", QuizID: "A", ScorePercentage: 90, TimeSpentSeconds: 100, StartedAt: 2},
	}
	rows := Leaderboard(attempts)
	if rows[0].UserID != "fast" {
		t.Fatalf("tie should rank faster user first, got %+v", rows)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	if rows := Leaderboard(nil); len(rows) != 0 {
		t.Fatalf("got %d rows for empty input", len(rows))
	}
}
