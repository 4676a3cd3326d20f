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

func newNewStrand() (*NewStrand, *testutil.MockStore, *testutil.MockWorkspaces) {
	store := testutil.NewMockStore()
	workspaces := testutil.NewMockWorkspaces()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewNewStrand(store, workspaces, clock, nil, "/data/workspaces"), store, workspaces
}

func TestNewStrand_WithoutWorkspace(t *testing.T) {
	uc, store, _ := newNewStrand()

	out, err := uc.Execute(context.Background(), NewStrandInput{
		Name:        "billing",
		Description: "billing work",
		Color:       "#ff8800",
		Keywords:    []string{"invoices"},
	})
	require.NoError(t, err)
	assert.Equal(t, "strand-00000001", out.Strand.ID)
	assert.False(t, out.Strand.HasWorkspace())
	assert.Empty(t, out.WorkspacePath)
	require.Len(t, store.Doc.Strands, 1)
	assert.Equal(t, "billing", store.Doc.Strands[0].Name)
}

func TestNewStrand_WithWorkspace(t *testing.T) {
	uc, store, workspaces := newNewStrand()
	workspaces.WorkspaceRes = domain.WorkspaceResult{OK: true, Path: "/data/workspaces/billing-00000001"}

	out, err := uc.Execute(context.Background(), NewStrandInput{
		Name:            "billing",
		CreateWorkspace: true,
		RemoteURL:       "https://example.com/billing.git",
	})
	require.NoError(t, err)
	require.True(t, out.Strand.HasWorkspace())
	assert.Equal(t, "/data/workspaces/billing-00000001", out.Strand.Workspace.RootPath)
	assert.Equal(t, "https://example.com/billing.git", out.Strand.Workspace.RemoteURL)
	assert.Equal(t, out.WorkspacePath, out.Strand.Workspace.RootPath)
	assert.True(t, store.Doc.Strands[0].HasWorkspace())
}

func TestNewStrand_WorkspaceFailureLeavesNoRecord(t *testing.T) {
	uc, store, workspaces := newNewStrand()
	workspaces.WorkspaceRes = domain.WorkspaceResult{Err: "clone failed"}

	_, err := uc.Execute(context.Background(), NewStrandInput{Name: "billing", CreateWorkspace: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clone failed")
	assert.Empty(t, store.Doc.Strands, "no half-created strand")
}

func TestNewStrand_EmptyName(t *testing.T) {
	uc, _, _ := newNewStrand()
	_, err := uc.Execute(context.Background(), NewStrandInput{})
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}
