package grading

import "math"

// Question is a minimal view of a quiz question needed for grading.
// Keep this in sync with the fields the catalog loads.
type Question struct {
	ID          string
	Text        string
	Options     []string
	Correct     int
	Explanation string
}

// Unanswered is the sentinel for a question the user skipped. Absent form
// slots, nulls and non-numeric values all normalize to it before grading.
const Unanswered = -1

const noAnswerText = "No answer selected"

// QuestionResult is the graded outcome of a single question. It is embedded
// in the attempt's review snapshot, so the JSON keys are part of stored data.
type QuestionResult struct {
	Index             int      `json:"questionIndex"`
	ID                string   `json:"id"`
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	UserAnswer        int      `json:"userAnswer"`
	CorrectAnswer     int      `json:"correctAnswer"`
	IsCorrect         bool     `json:"isCorrect"`
	UserAnswerText    string   `json:"userAnswerText"`
	CorrectAnswerText string   `json:"correctAnswerText"`
	Explanation       string   `json:"explanation"`
}

// Result is the full graded outcome of one submission.
type Result struct {
	TotalQuestions int              `json:"totalQuestions"`
	CorrectCount   int              `json:"correctCount"`
	IncorrectCount int              `json:"incorrectCount"`
	Percentage     int              `json:"percentage"`
	Grade          string           `json:"grade"`
	Message        string           `json:"message"`
	TimeSpent      string           `json:"timeSpent"`
	Questions      []QuestionResult `json:"questionResults"`
}

// Grade scores a submission against the question list. It is pure and never
// fails: answers that are missing, out of range or otherwise malformed grade
// as incorrect. answers may be shorter or longer than questions; extra
// entries are ignored and missing ones count as Unanswered. timeSpent is an
// opaque display value passed through unmodified.
func Grade(questions []Question, answers []int, timeSpent string) Result {
	results := make([]QuestionResult, len(questions))
	correct := 0

	for i, q := range questions {
		ans := Unanswered
		if i < len(answers) {
			ans = answers[i]
		}
		if ans < 0 || ans >= len(q.Options) {
			ans = Unanswered
		}

		// An unanswered question is never correct, even if the stored
		// correct index were itself -1.
		ok := ans != Unanswered && ans == q.Correct

		userText := noAnswerText
		if ans != Unanswered {
			userText = q.Options[ans]
		}
		correctText := ""
		if q.Correct >= 0 && q.Correct < len(q.Options) {
			correctText = q.Options[q.Correct]
		}

		if ok {
			correct++
		}
		results[i] = QuestionResult{
			Index:             i,
			ID:                q.ID,
			Question:          q.Text,
			Options:           q.Options,
			UserAnswer:        ans,
			CorrectAnswer:     q.Correct,
			IsCorrect:         ok,
			UserAnswerText:    userText,
			CorrectAnswerText: correctText,
			Explanation:       q.Explanation,
		}
	}

	total := len(questions)
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(correct) / float64(total) * 100))
	}
	grade, message := Band(pct)

	return Result{
		TotalQuestions: total,
		CorrectCount:   correct,
		IncorrectCount: total - correct,
		Percentage:     pct,
		Grade:          grade,
		Message:        message,
		TimeSpent:      timeSpent,
		Questions:      results,
	}
}

// Band maps a score percentage to its qualitative grade label and message.
// Thresholds are inclusive.
func Band(percentage int) (grade, message string) {
	switch {
	case percentage >= 90:
		return "Excellent!", "Outstanding performance! You've mastered these concepts."
	case percentage >= 80:
		return "Great Job!", "Very good understanding of the material."
	case percentage >= 70:
		return "Good Work!", "You've shown solid understanding of the concepts."
	case percentage >= 60:
		return "Fair", "You have basic understanding, but there's room for improvement."
	default:
		return "Needs Improvement", "Consider reviewing the material and trying again."
	}
}
