package domain

import "time"

// Workspace records the version-control workspace provisioned for a strand.
type Workspace struct {
	CreatedAt time.Time `json:"createdAt"`
	RootPath  string    `json:"rootPath"`
	RemoteURL string    `json:"remoteUrl,omitempty"`
}

// Strand is a project/work container. It owns goals and, optionally, an
// isolated version-control workspace.
// Fields are ordered to minimize memory padding.
type Strand struct {
	Created      time.Time  `json:"created"`
	Updated      time.Time  `json:"updated,omitzero"`
	Workspace    *Workspace `json:"workspace,omitempty"`
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Color        string     `json:"color,omitempty"`
	AutonomyMode string     `json:"autonomyMode,omitempty"` // Autonomy override (empty = default)
	Keywords     []string   `json:"keywords,omitempty"`
}

// HasWorkspace returns true if a version-control workspace has been
// provisioned for the strand.
func (s *Strand) HasWorkspace() bool {
	return s.Workspace != nil && s.Workspace.RootPath != ""
}
