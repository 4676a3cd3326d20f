package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TaskDraft is a task definition produced by the plan parser before IDs
// are allocated. DependsOn holds 1-based indices of earlier drafts in the
// same plan.
type TaskDraft struct {
	Text        string `yaml:"text"`
	Description string `yaml:"description,omitempty"`
	Priority    int    `yaml:"priority,omitempty"`
	DependsOn   []int  `yaml:"depends_on,omitempty"`
}

// planFile is the on-disk shape of a plan drafts file.
type planFile struct {
	Tasks []TaskDraft `yaml:"tasks"`
}

// ParseTaskDrafts parses YAML plan content into an ordered list of task
// drafts.
//
// Format:
//
//	tasks:
//	  - text: Set up the database schema
//	    description: Tables for users and sessions.
//	  - text: Implement the API layer
//	    depends_on: [1]
//
// Dependency references are 1-based indices of earlier tasks in the same
// file; forward or self references are rejected. Content with no tasks
// yields ErrNoPlanDetected, which callers treat as terminal.
func ParseTaskDrafts(content []byte) ([]TaskDraft, error) {
	var plan planFile
	if err := yaml.Unmarshal(content, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if len(plan.Tasks) == 0 {
		return nil, ErrNoPlanDetected
	}

	for i, draft := range plan.Tasks {
		if draft.Text == "" {
			return nil, fmt.Errorf("task %d: %w", i+1, ErrEmptyText)
		}
		for _, dep := range draft.DependsOn {
			if dep < 1 || dep > len(plan.Tasks) {
				return nil, fmt.Errorf("task %d: depends_on index %d out of range", i+1, dep)
			}
			if dep >= i+1 {
				return nil, fmt.Errorf("task %d: depends_on index %d must reference an earlier task", i+1, dep)
			}
		}
	}
	return plan.Tasks, nil
}
