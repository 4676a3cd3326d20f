package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/loom/internal/domain"
	"github.com/runoshun/loom/internal/testutil"
)

func newSetAutonomy() (*SetAutonomy, *testutil.MockStore) {
	store := testutil.NewMockStore()
	store.Doc.Strands = append(store.Doc.Strands, &domain.Strand{ID: "strand-1", Name: "test"})
	store.Doc.Goals = append(store.Doc.Goals, &domain.Goal{
		ID:       "g-1",
		StrandID: "strand-1",
		Status:   domain.GoalActive,
		Tasks:    []*domain.Task{{ID: "t-1", Text: "work", Status: domain.TaskPending}},
	})
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewSetAutonomy(store, clock, nil), store
}

func TestSetAutonomy_EachLevel(t *testing.T) {
	uc, store := newSetAutonomy()
	ctx := context.Background()

	require.NoError(t, uc.Strand(ctx, SetAutonomyInput{StrandID: "strand-1", Mode: "full"}))
	require.NoError(t, uc.Goal(ctx, SetAutonomyInput{GoalID: "g-1", Mode: "step"}))
	require.NoError(t, uc.Task(ctx, SetAutonomyInput{GoalID: "g-1", TaskID: "t-1", Mode: "supervised"}))

	assert.Equal(t, "full", store.Doc.Strand("strand-1").AutonomyMode)
	assert.Equal(t, "step", store.Doc.Goal("g-1").AutonomyMode)
	assert.Equal(t, "supervised", store.Doc.Goal("g-1").Task("t-1").AutonomyMode)
}

func TestSetAutonomy_InvalidModeRejectedBeforeLookup(t *testing.T) {
	uc, store := newSetAutonomy()
	ctx := context.Background()

	// Invalid mode wins over not-found: validation happens first.
	err := uc.Strand(ctx, SetAutonomyInput{StrandID: "strand-missing", Mode: "yolo"})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)

	err = uc.Goal(ctx, SetAutonomyInput{GoalID: "g-1", Mode: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
	assert.Empty(t, store.Doc.Goal("g-1").AutonomyMode)
}

func TestSetAutonomy_NotFound(t *testing.T) {
	uc, _ := newSetAutonomy()
	ctx := context.Background()

	assert.ErrorIs(t, uc.Strand(ctx, SetAutonomyInput{StrandID: "strand-x", Mode: "full"}), domain.ErrStrandNotFound)
	assert.ErrorIs(t, uc.Goal(ctx, SetAutonomyInput{GoalID: "g-x", Mode: "full"}), domain.ErrGoalNotFound)
	assert.ErrorIs(t, uc.Task(ctx, SetAutonomyInput{GoalID: "g-1", TaskID: "t-x", Mode: "full"}), domain.ErrTaskNotFound)
}
