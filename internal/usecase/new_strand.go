// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// NewStrandInput contains the parameters for creating a strand.
// Fields are ordered to minimize memory padding.
type NewStrandInput struct {
	Name            string   // Strand name (required)
	Description     string   // Description (optional)
	Color           string   // Display color (optional)
	RemoteURL       string   // Remote to clone when creating the workspace
	Keywords        []string // Keywords (optional)
	CreateWorkspace bool     // Provision a version-control workspace now
}

// NewStrandOutput contains the result of creating a strand.
type NewStrandOutput struct {
	Strand        *domain.Strand
	WorkspacePath string // Set when a workspace was provisioned
}

// NewStrand is the use case for creating a strand, optionally provisioning
// its version-control workspace.
type NewStrand struct {
	store      domain.DocumentStore
	workspaces domain.WorkspaceManager
	clock      domain.Clock
	logger     *slog.Logger
	baseDir    string // Base directory for strand workspaces
}

// NewNewStrand creates a new NewStrand use case.
func NewNewStrand(store domain.DocumentStore, workspaces domain.WorkspaceManager, clock domain.Clock, logger *slog.Logger, baseDir string) *NewStrand {
	return &NewStrand{
		store:      store,
		workspaces: workspaces,
		clock:      clock,
		logger:     logger,
		baseDir:    baseDir,
	}
}

// Execute creates the strand. The workspace is provisioned before the
// store mutation so a git failure leaves no half-created strand behind.
func (uc *NewStrand) Execute(ctx context.Context, in NewStrandInput) (*NewStrandOutput, error) {
	if in.Name == "" {
		return nil, domain.ErrEmptyName
	}

	now := uc.clock.Now()
	strand := &domain.Strand{
		ID:          uc.store.NewID("strand"),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Keywords:    in.Keywords,
		Created:     now,
	}

	out := &NewStrandOutput{Strand: strand}
	if in.CreateWorkspace {
		res := uc.workspaces.CreateStrandWorkspace(ctx, uc.baseDir, strand.ID, in.Name, in.RemoteURL)
		if !res.OK {
			return nil, fmt.Errorf("create workspace: %s", res.Err)
		}
		strand.Workspace = &domain.Workspace{
			RootPath:  res.Path,
			RemoteURL: in.RemoteURL,
			CreatedAt: now,
		}
		out.WorkspacePath = res.Path
	}

	if err := uc.store.Mutate(func(doc *domain.Document) error {
		doc.Strands = append(doc.Strands, strand)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("persist strand: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("strand created", "strandId", strand.ID, "name", strand.Name)
	}
	return out, nil
}
