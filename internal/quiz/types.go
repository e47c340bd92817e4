package quiz

import "github.com/quizhall/quizhall/internal/grading"

// Question as stored in the static quiz JSON files. Published questions are
// immutable; the catalog only reads them.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer int      `json:"correctAnswer" validate:"gte=0"`
	Explanation   string   `json:"explanation"`
}

// Quiz is one quiz file within a module. Key is "<module>/<number>" and is
// the stable identifier attempts reference.
type Quiz struct {
	Key       string
	ModuleID  string
	Number    int
	Title     string
	Questions []Question
}

// Module is a named subject grouping one or more quizzes.
type Module struct {
	ID          string `json:"name" validate:"required,lowercase,excludesall= /"`
	DisplayName string `json:"display_name" validate:"required"`
	Icon        string `json:"icon"`
	Quizzes     []Quiz `json:"-"`
}

// GradingView maps the quiz's questions to the grader's minimal view.
func (q Quiz) GradingView() []grading.Question {
	out := make([]grading.Question, len(q.Questions))
	for i, qq := range q.Questions {
		out[i] = grading.Question{
			ID:          qq.ID,
			Text:        qq.Text,
			Options:     qq.Options,
			Correct:     qq.CorrectAnswer,
			Explanation: qq.Explanation,
		}
	}
	return out
}
