package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/loom/internal/domain"
	"github.com/runoshun/loom/internal/testutil"
)

func TestRemoveStrand_DropsStrandAndGoals(t *testing.T) {
	store := testutil.NewMockStore()
	workspaces := testutil.NewMockWorkspaces()
	uc := NewRemoveStrand(store, workspaces, nil)

	store.Doc.Strands = append(store.Doc.Strands,
		&domain.Strand{ID: "strand-1", Name: "gone", Workspace: &domain.Workspace{RootPath: "/x"}},
		&domain.Strand{ID: "strand-2", Name: "kept"},
	)
	store.Doc.Goals = append(store.Doc.Goals,
		&domain.Goal{ID: "g-1", StrandID: "strand-1", Status: domain.GoalActive},
		&domain.Goal{ID: "g-2", StrandID: "strand-2", Status: domain.GoalActive},
	)

	require.NoError(t, uc.Execute(context.Background(), RemoveStrandInput{StrandID: "strand-1"}))

	assert.Nil(t, store.Doc.Strand("strand-1"))
	assert.Nil(t, store.Doc.Goal("g-1"))
	assert.NotNil(t, store.Doc.Strand("strand-2"))
	assert.NotNil(t, store.Doc.Goal("g-2"))
}

func TestRemoveStrand_WorkspaceFailureAborts(t *testing.T) {
	store := testutil.NewMockStore()
	workspaces := testutil.NewMockWorkspaces()
	workspaces.RemoveSpaceRes = domain.OpResult{Err: "permission denied"}
	uc := NewRemoveStrand(store, workspaces, nil)

	store.Doc.Strands = append(store.Doc.Strands,
		&domain.Strand{ID: "strand-1", Name: "gone", Workspace: &domain.Workspace{RootPath: "/x"}})

	err := uc.Execute(context.Background(), RemoveStrandInput{StrandID: "strand-1"})
	require.Error(t, err)
	assert.NotNil(t, store.Doc.Strand("strand-1"), "records kept when disk cleanup fails")
}

func TestRemoveStrand_NotFound(t *testing.T) {
	uc := NewRemoveStrand(testutil.NewMockStore(), testutil.NewMockWorkspaces(), nil)
	err := uc.Execute(context.Background(), RemoveStrandInput{StrandID: "strand-x"})
	assert.ErrorIs(t, err, domain.ErrStrandNotFound)
}
