package usecase

import (
	"context"
	"log/slog"

	"github.com/runoshun/loom/internal/domain"
)

// BindSessionInput contains the parameters for binding an interactive
// session to a strand.
type BindSessionInput struct {
	SessionKey string
	StrandID   string
}

// ResolveSessionInput contains the parameters for resolving a session key.
type ResolveSessionInput struct {
	SessionKey string
}

// ResolveSessionOutput reports what a session key is bound to. GoalID is
// set for spawned worker sessions, StrandID for interactive bindings;
// either may be empty.
type ResolveSessionOutput struct {
	StrandID string
	GoalID   string
}

// BindSession is the use case for the session index maintenance:
// interactive sessions bind to a strand for conversational operations,
// and lookups resolve either kind of binding. Entries age out with their
// owners; there is no explicit unbind.
type BindSession struct {
	store  domain.DocumentStore
	logger *slog.Logger
}

// NewBindSession creates a new BindSession use case.
func NewBindSession(store domain.DocumentStore, logger *slog.Logger) *BindSession {
	return &BindSession{store: store, logger: logger}
}

// Execute records the session-to-strand binding.
func (uc *BindSession) Execute(_ context.Context, in BindSessionInput) error {
	if in.SessionKey == "" {
		return domain.ErrSessionNotFound
	}
	err := uc.store.Mutate(func(doc *domain.Document) error {
		if doc.Strand(in.StrandID) == nil {
			return domain.ErrStrandNotFound
		}
		doc.SessionStrandIndex[in.SessionKey] = in.StrandID
		return nil
	})
	if err == nil && uc.logger != nil {
		uc.logger.Info("session bound", "sessionKey", in.SessionKey, "strandId", in.StrandID)
	}
	return err
}

// Resolve looks up both indices for a session key.
func (uc *BindSession) Resolve(_ context.Context, in ResolveSessionInput) (*ResolveSessionOutput, error) {
	doc, err := uc.store.Load()
	if err != nil {
		return nil, err
	}

	out := &ResolveSessionOutput{}
	if binding, ok := doc.SessionIndex[in.SessionKey]; ok {
		out.GoalID = binding.GoalID
		if goal := doc.Goal(binding.GoalID); goal != nil {
			out.StrandID = goal.StrandID
		}
	}
	if strandID, ok := doc.SessionStrandIndex[in.SessionKey]; ok {
		out.StrandID = strandID
	}
	if out.StrandID == "" && out.GoalID == "" {
		return nil, domain.ErrSessionNotFound
	}
	return out, nil
}
