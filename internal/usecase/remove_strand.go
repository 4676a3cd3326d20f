package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// RemoveStrandInput contains the parameters for destroying a strand.
type RemoveStrandInput struct {
	StrandID string
}

// RemoveStrand is the use case for destroying a strand: its workspace is
// deleted from disk and the strand and all its goal records are dropped
// from the document. Rare, deliberate, and not undoable.
type RemoveStrand struct {
	store      domain.DocumentStore
	workspaces domain.WorkspaceManager
	logger     *slog.Logger
}

// NewRemoveStrand creates a new RemoveStrand use case.
func NewRemoveStrand(store domain.DocumentStore, workspaces domain.WorkspaceManager, logger *slog.Logger) *RemoveStrand {
	return &RemoveStrand{store: store, workspaces: workspaces, logger: logger}
}

// Execute removes the workspace first (a no-op when absent), then drops
// the records.
func (uc *RemoveStrand) Execute(_ context.Context, in RemoveStrandInput) error {
	doc, err := uc.store.Load()
	if err != nil {
		return err
	}
	strand := doc.Strand(in.StrandID)
	if strand == nil {
		return domain.ErrStrandNotFound
	}

	if strand.HasWorkspace() {
		if op := uc.workspaces.RemoveStrandWorkspace(strand.Workspace.RootPath); !op.OK {
			return fmt.Errorf("remove workspace: %s", op.Err)
		}
	}

	if err := uc.store.Mutate(func(doc *domain.Document) error {
		if doc.Strand(in.StrandID) == nil {
			return domain.ErrStrandNotFound
		}

		strands := doc.Strands[:0]
		for _, s := range doc.Strands {
			if s.ID != in.StrandID {
				strands = append(strands, s)
			}
		}
		doc.Strands = strands

		goals := doc.Goals[:0]
		for _, g := range doc.Goals {
			if g.StrandID != in.StrandID {
				goals = append(goals, g)
			}
		}
		doc.Goals = goals
		return nil
	}); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Info("strand removed", "strandId", in.StrandID)
	}
	return nil
}
