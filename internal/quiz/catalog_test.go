package quiz

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "valid"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(c.Modules))
	}

	m, ok := c.Module("networking")
	if !ok {
		t.Fatal("networking module missing")
	}
	if m.DisplayName != "Computer Networking" {
		t.Errorf("display name = %q", m.DisplayName)
	}
	if len(m.Quizzes) != 2 {
		t.Fatalf("got %d quizzes, want 2", len(m.Quizzes))
	}
	if m.Quizzes[0].Number != 1 || m.Quizzes[1].Number != 2 {
		t.Errorf("quizzes out of order: %d, %d", m.Quizzes[0].Number, m.Quizzes[1].Number)
	}

	q, ok := c.Quiz("networking/1")
	if !ok {
		t.Fatal("quiz networking/1 missing")
	}
	if q.Title != "Computer Networking Quiz 1" {
		t.Errorf("title = %q", q.Title)
	}
	if len(q.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(q.Questions))
	}
	// Second question has no id in the file; the loader assigns one by
	// position.
	if q.Questions[1].ID != "q2" {
		t.Errorf("fallback id = %q, want q2", q.Questions[1].ID)
	}
}

func TestLoadRejectsOutOfRangeAnswerKey(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "badkey"))
	if err == nil {
		t.Fatal("expected error for correctAnswer out of range")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestGradingView(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "valid"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	q, _ := c.Quiz("statistics/1")
	view := q.GradingView()
	if len(view) != 1 {
		t.Fatalf("got %d grading questions", len(view))
	}
	if view[0].Correct != 1 || view[0].Options[1] != "4" {
		t.Errorf("grading view mismatch: %+v", view[0])
	}
}
