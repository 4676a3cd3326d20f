// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/loom/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockStore is an in-memory test double for domain.DocumentStore.
// Fields are ordered to minimize memory padding.
type MockStore struct {
	Doc       *domain.Document
	LoadErr   error
	SaveErr   error
	MutateErr error
	NextID    int
	Saves     int // Number of persisted writes
}

// NewMockStore creates a MockStore with an empty document.
func NewMockStore() *MockStore {
	return &MockStore{Doc: domain.NewDocument(), NextID: 1}
}

// Load returns the in-memory document. Unlike the real store it does not
// deep-copy; tests mutate the document directly.
func (m *MockStore) Load() (*domain.Document, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Doc, nil
}

// Save records the write.
func (m *MockStore) Save(doc *domain.Document) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Doc = doc
	m.Saves++
	return nil
}

// Mutate applies fn to the in-memory document.
func (m *MockStore) Mutate(fn func(doc *domain.Document) error) error {
	if m.MutateErr != nil {
		return m.MutateErr
	}
	if m.LoadErr != nil {
		return m.LoadErr
	}
	if err := fn(m.Doc); err != nil {
		return err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	return nil
}

// NewID returns sequential prefixed IDs for deterministic tests.
func (m *MockStore) NewID(prefix string) string {
	id := fmt.Sprintf("%s-%08d", prefix, m.NextID)
	m.NextID++
	return id
}

// Initialize is a no-op.
func (m *MockStore) Initialize() error { return nil }

// Ensure MockStore implements the port.
var _ domain.DocumentStore = (*MockStore)(nil)

// MockWorkspaces is a test double for domain.WorkspaceManager.
// Fields are ordered to minimize memory padding.
type MockWorkspaces struct {
	WorkspaceRes   domain.WorkspaceResult
	WorktreeRes    domain.WorktreeResult
	RemoveTreeRes  domain.OpResult
	RemoveSpaceRes domain.OpResult
	MergeRes       domain.MergeResult
	StatusRes      domain.BranchStatus
	MainBranchName string
	MainBranchErr  error
	StatusErr      error
	MergeCalls     []string // Branch names passed to MergeGoalBranch
	WorktreeCalls  []string // Goal IDs passed to CreateGoalWorktree
}

// NewMockWorkspaces creates a MockWorkspaces that succeeds by default.
func NewMockWorkspaces() *MockWorkspaces {
	return &MockWorkspaces{
		WorkspaceRes:   domain.WorkspaceResult{OK: true, Path: "/tmp/loom-ws"},
		WorktreeRes:    domain.WorktreeResult{OK: true, Path: "/tmp/loom-wt", Branch: "goal/test"},
		RemoveTreeRes:  domain.OpResult{OK: true},
		RemoveSpaceRes: domain.OpResult{OK: true},
		MergeRes:       domain.MergeResult{OK: true, Merged: true},
		MainBranchName: "main",
	}
}

// CreateStrandWorkspace returns the configured result.
func (m *MockWorkspaces) CreateStrandWorkspace(_ context.Context, _, _, _, _ string) domain.WorkspaceResult {
	return m.WorkspaceRes
}

// CreateGoalWorktree records the call and returns the configured result.
func (m *MockWorkspaces) CreateGoalWorktree(_ context.Context, _, goalID, _ string) domain.WorktreeResult {
	m.WorktreeCalls = append(m.WorktreeCalls, goalID)
	return m.WorktreeRes
}

// RemoveGoalWorktree returns the configured result.
func (m *MockWorkspaces) RemoveGoalWorktree(_ context.Context, _, _, _ string) domain.OpResult {
	return m.RemoveTreeRes
}

// RemoveStrandWorkspace returns the configured result.
func (m *MockWorkspaces) RemoveStrandWorkspace(_ string) domain.OpResult {
	return m.RemoveSpaceRes
}

// MainBranch returns the configured branch name.
func (m *MockWorkspaces) MainBranch(_ string) (string, error) {
	return m.MainBranchName, m.MainBranchErr
}

// MergeGoalBranch records the call and returns the configured result.
func (m *MockWorkspaces) MergeGoalBranch(_ context.Context, _, branchName string) domain.MergeResult {
	m.MergeCalls = append(m.MergeCalls, branchName)
	return m.MergeRes
}

// BranchStatus returns the configured status.
func (m *MockWorkspaces) BranchStatus(_, _ string) (domain.BranchStatus, error) {
	return m.StatusRes, m.StatusErr
}

// Ensure MockWorkspaces implements the port.
var _ domain.WorkspaceManager = (*MockWorkspaces)(nil)

// MockTransport is a test double for domain.SessionTransport.
type MockTransport struct {
	DeliverErr error
	Delivered  []domain.AssignmentContext
}

// Deliver records the assignment.
func (m *MockTransport) Deliver(_ context.Context, _ string, a domain.AssignmentContext) error {
	if m.DeliverErr != nil {
		return m.DeliverErr
	}
	m.Delivered = append(m.Delivered, a)
	return nil
}

// Ensure MockTransport implements the port.
var _ domain.SessionTransport = (*MockTransport)(nil)
