package domain

import (
	"errors"
	"testing"
)

func TestParseTaskDrafts(t *testing.T) {
	content := []byte(`
tasks:
  - text: Set up the schema
    description: Tables for users and sessions.
  - text: Implement the API layer
    priority: 2
    depends_on: [1]
  - text: Wire the frontend
    depends_on: [1, 2]
`)

	drafts, err := ParseTaskDrafts(content)
	if err != nil {
		t.Fatalf("ParseTaskDrafts() error = %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("ParseTaskDrafts() returned %d drafts, want 3", len(drafts))
	}
	if drafts[0].Text != "Set up the schema" {
		t.Errorf("drafts[0].Text = %q", drafts[0].Text)
	}
	if drafts[0].Description != "Tables for users and sessions." {
		t.Errorf("drafts[0].Description = %q", drafts[0].Description)
	}
	if drafts[1].Priority != 2 {
		t.Errorf("drafts[1].Priority = %d, want 2", drafts[1].Priority)
	}
	if len(drafts[2].DependsOn) != 2 {
		t.Errorf("drafts[2].DependsOn = %v, want [1 2]", drafts[2].DependsOn)
	}
}

func TestParseTaskDrafts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty content", "", ErrNoPlanDetected},
		{"no tasks key", "other: thing", ErrNoPlanDetected},
		{"empty task list", "tasks: []", ErrNoPlanDetected},
		{"missing text", "tasks:\n  - description: no text here", ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTaskDrafts([]byte(tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseTaskDrafts() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("forward reference", func(t *testing.T) {
		content := "tasks:\n  - text: a\n    depends_on: [2]\n  - text: b"
		if _, err := ParseTaskDrafts([]byte(content)); err == nil {
			t.Error("ParseTaskDrafts() accepted a forward reference")
		}
	})

	t.Run("self reference", func(t *testing.T) {
		content := "tasks:\n  - text: a\n    depends_on: [1]"
		if _, err := ParseTaskDrafts([]byte(content)); err == nil {
			t.Error("ParseTaskDrafts() accepted a self reference")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		content := "tasks:\n  - text: a\n    depends_on: [9]"
		if _, err := ParseTaskDrafts([]byte(content)); err == nil {
			t.Error("ParseTaskDrafts() accepted an out-of-range reference")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		if _, err := ParseTaskDrafts([]byte("tasks: [")); err == nil {
			t.Error("ParseTaskDrafts() accepted malformed YAML")
		}
	})
}
