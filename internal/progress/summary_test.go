package progress

import (
	"reflect"
	"testing"
)

func TestSummarize(t *testing.T) {
	attempts := []Attempt{
		{QuizID: "A", ScorePercentage: 80, TimeSpentSeconds: 120},
		{QuizID: "A", ScorePercentage: 100, TimeSpentSeconds: 90},
		{QuizID: "B", ScorePercentage: 60, TimeSpentSeconds: 300},
	}
	s := Summarize(attempts, 5)

	if s.QuizzesCompleted != 2 {
		t.Errorf("quizzesCompleted = %d, want 2", s.QuizzesCompleted)
	}
	if s.TotalQuizzes != 5 {
		t.Errorf("totalQuizzes = %d, want 5", s.TotalQuizzes)
	}
	if s.BestScore != 100 {
		t.Errorf("bestScore = %v, want 100", s.BestScore)
	}
	if s.AverageScore != 80 {
		t.Errorf("averageScore = %v, want 80", s.AverageScore)
	}
	if s.TotalAttempts != 3 {
		t.Errorf("totalAttempts = %d, want 3", s.TotalAttempts)
	}
	if s.TotalTimeSpentSeconds != 510 {
		t.Errorf("totalTimeSpentSeconds = %d, want 510", s.TotalTimeSpentSeconds)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	attempts := []Attempt{
		{QuizID: "A", ScorePercentage: 75, TimeSpentSeconds: 45},
		{QuizID: "B", ScorePercentage: 50},
	}
	first := Summarize(attempts, 3)
	second := Summarize(attempts, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summaries differ:\n%+v\n%+v", first, second)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 4)
	want := Summary{TotalQuizzes: 4}
	if !reflect.DeepEqual(s, want) {
		t.Fatalf("empty set summary = %+v, want %+v", s, want)
	}
}

func TestSummarizeMissingTime(t *testing.T) {
	s := Summarize([]Attempt{{QuizID: "A", ScorePercentage: 90}}, 1)
	if s.TotalTimeSpentSeconds != 0 {
		t.Fatalf("totalTimeSpentSeconds = %d, want 0", s.TotalTimeSpentSeconds)
	}
}
