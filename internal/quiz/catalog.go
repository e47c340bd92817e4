package quiz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Catalog is the in-memory index of every module and quiz loaded from the
// quiz directory. Layout on disk:
//
//	<dir>/modules.json              module manifest
//	<dir>/<module>/<number>.json    one question array per quiz
type Catalog struct {
	Modules []Module

	byModule map[string]*Module
	byQuiz   map[string]*Quiz
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the full quiz directory. Quiz definitions are
// rejected at load time rather than at grading time: a correctAnswer index
// outside the option list would otherwise surface as every submission
// grading incorrect.
func Load(dir string) (*Catalog, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "modules.json"))
	if err != nil {
		return nil, fmt.Errorf("read module manifest: %w", err)
	}
	var modules []Module
	if err := json.Unmarshal(raw, &modules); err != nil {
		return nil, fmt.Errorf("parse module manifest: %w", err)
	}

	c := &Catalog{
		byModule: make(map[string]*Module),
		byQuiz:   make(map[string]*Quiz),
	}
	for _, m := range modules {
		if err := validate.Struct(m); err != nil {
			return nil, fmt.Errorf("module %q: %w", m.ID, err)
		}
		if _, dup := c.byModule[m.ID]; dup {
			return nil, fmt.Errorf("duplicate module %q", m.ID)
		}
		quizzes, err := loadModuleQuizzes(dir, m)
		if err != nil {
			return nil, err
		}
		m.Quizzes = quizzes
		c.Modules = append(c.Modules, m)
		mp := &c.Modules[len(c.Modules)-1]
		c.byModule[m.ID] = mp
		for i := range mp.Quizzes {
			c.byQuiz[mp.Quizzes[i].Key] = &mp.Quizzes[i]
		}
	}
	return c, nil
}

func loadModuleQuizzes(dir string, m Module) ([]Quiz, error) {
	entries, err := os.ReadDir(filepath.Join(dir, m.ID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read module dir %q: %w", m.ID, err)
	}

	var quizzes []Quiz
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		num, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			return nil, fmt.Errorf("quiz file %s/%s: name must be a number", m.ID, e.Name())
		}
		q, err := loadQuizFile(filepath.Join(dir, m.ID, e.Name()), m, num)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].Number < quizzes[j].Number })
	return quizzes, nil
}

func loadQuizFile(path string, m Module, num int) (Quiz, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Quiz{}, err
	}
	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return Quiz{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(questions) == 0 {
		return Quiz{}, fmt.Errorf("%s: quiz has no questions", path)
	}
	for i := range questions {
		q := &questions[i]
		if err := validate.Struct(q); err != nil {
			return Quiz{}, fmt.Errorf("%s question %d: %w", path, i+1, err)
		}
		if q.CorrectAnswer >= len(q.Options) {
			return Quiz{}, fmt.Errorf("%s question %d: correctAnswer %d out of range", path, i+1, q.CorrectAnswer)
		}
		// Questions keep a stable id even when the file omits one, so
		// review snapshots stay addressable by position.
		if q.ID == "" {
			q.ID = "q" + strconv.Itoa(i+1)
		}
	}
	return Quiz{
		Key:       m.ID + "/" + strconv.Itoa(num),
		ModuleID:  m.ID,
		Number:    num,
		Title:     fmt.Sprintf("%s Quiz %d", m.DisplayName, num),
		Questions: questions,
	}, nil
}

// QuizCount reports the number of quizzes across every module.
func (c *Catalog) QuizCount() int { return len(c.byQuiz) }

// Module returns the module with the given id.
func (c *Catalog) Module(id string) (*Module, bool) {
	m, ok := c.byModule[id]
	return m, ok
}

// Quiz returns the quiz with the given "<module>/<number>" key.
func (c *Catalog) Quiz(key string) (*Quiz, bool) {
	q, ok := c.byQuiz[key]
	return q, ok
}
