package workspace

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/loom/internal/domain"
)

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// newWorkspace provisions a strand workspace in a temp dir.
func newWorkspace(t *testing.T) (m *Manager, baseDir, path string) {
	t.Helper()
	m = NewManager()
	baseDir = t.TempDir()

	res := m.CreateStrandWorkspace(context.Background(), baseDir, "strand-a1b2c3d4", "Test Project", "")
	require.True(t, res.OK, "create workspace: %s", res.Err)
	require.False(t, res.Existed)
	return m, baseDir, res.Path
}

// commitFile writes and commits a file in dir.
func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	git(t, dir, "add", name)
	git(t, dir, "commit", "-m", message)
}

func TestManager_CreateStrandWorkspace(t *testing.T) {
	m, _, path := newWorkspace(t)
	ctx := context.Background()

	// Directory name combines slug and ID fragment.
	assert.Equal(t, "test-project-a1b2c3d4", filepath.Base(path))

	// Repository with an initial commit and a goals subdirectory.
	assert.DirExists(t, filepath.Join(path, ".git"))
	assert.DirExists(t, filepath.Join(path, domain.GoalsDirName))
	out := git(t, path, "rev-list", "--count", "HEAD")
	assert.Equal(t, "1", strings.TrimSpace(out))

	// Second call is idempotent and reports Existed.
	res := m.CreateStrandWorkspace(ctx, filepath.Dir(path), "strand-a1b2c3d4", "Test Project", "")
	require.True(t, res.OK, res.Err)
	assert.True(t, res.Existed)
	assert.Equal(t, path, res.Path)
	out = git(t, path, "rev-list", "--count", "HEAD")
	assert.Equal(t, "1", strings.TrimSpace(out), "repeat call must not reinitialize")
}

func TestManager_CreateStrandWorkspace_EmptyName(t *testing.T) {
	m := NewManager()
	res := m.CreateStrandWorkspace(context.Background(), t.TempDir(), "strand-ffff0000", "!!!", "")
	require.True(t, res.OK, res.Err)
	assert.Equal(t, "strand-ffff0000", filepath.Base(res.Path))
}

func TestManager_CreateStrandWorkspace_InvalidRemote(t *testing.T) {
	m := NewManager()
	baseDir := t.TempDir()

	res := m.CreateStrandWorkspace(context.Background(), baseDir, "strand-a1b2c3d4", "Cloned", "/nonexistent/remote.git")
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Err)

	// No partial directory left behind.
	entries, err := os.ReadDir(baseDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManager_CreateStrandWorkspace_Clone(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	// A local origin repository to clone from.
	origin := filepath.Join(t.TempDir(), "origin")
	require.NoError(t, os.MkdirAll(origin, 0o750))
	git(t, origin, "init")
	git(t, origin, "config", "user.email", "test@example.com")
	git(t, origin, "config", "user.name", "Test User")
	commitFile(t, origin, "README.md", "# origin", "initial")

	res := m.CreateStrandWorkspace(ctx, t.TempDir(), "strand-clone123", "Cloned", origin)
	require.True(t, res.OK, res.Err)
	assert.FileExists(t, filepath.Join(res.Path, "README.md"))
	assert.DirExists(t, filepath.Join(res.Path, domain.GoalsDirName))
}

func TestManager_CreateGoalWorktree(t *testing.T) {
	m, _, path := newWorkspace(t)
	ctx := context.Background()

	res := m.CreateGoalWorktree(ctx, path, "goal-11112222", "Add Auth Flow")
	require.True(t, res.OK, res.Err)
	assert.Equal(t, "goal/add-auth-flow", res.Branch)
	assert.Equal(t, domain.GoalWorktreePath(path, "goal-11112222"), res.Path)
	assert.DirExists(t, res.Path)

	// Idempotent: second call reports Existed with the same branch.
	again := m.CreateGoalWorktree(ctx, path, "goal-11112222", "Add Auth Flow")
	require.True(t, again.OK, again.Err)
	assert.True(t, again.Existed)
	assert.Equal(t, res.Branch, again.Branch)
	assert.Equal(t, res.Path, again.Path)
}

func TestManager_CreateGoalWorktree_NoTitle(t *testing.T) {
	m, _, path := newWorkspace(t)

	res := m.CreateGoalWorktree(context.Background(), path, "goal-33334444", "")
	require.True(t, res.OK, res.Err)
	assert.Equal(t, "goal/goal-33334444", res.Branch)
}

func TestManager_CreateGoalWorktree_BranchCollision(t *testing.T) {
	m, _, path := newWorkspace(t)
	ctx := context.Background()

	first := m.CreateGoalWorktree(ctx, path, "goal-11112222", "Add Auth")
	require.True(t, first.OK, first.Err)

	// A different goal with the same slugified title gets a
	// disambiguated branch, not an error.
	second := m.CreateGoalWorktree(ctx, path, "goal-99998888", "Add Auth")
	require.True(t, second.OK, second.Err)
	assert.NotEqual(t, first.Branch, second.Branch)
	assert.Equal(t, "goal/add-auth-99998888", second.Branch)
	assert.DirExists(t, second.Path)
}

func TestManager_RemoveGoalWorktree(t *testing.T) {
	m, _, path := newWorkspace(t)
	ctx := context.Background()

	res := m.CreateGoalWorktree(ctx, path, "goal-11112222", "Cleanup Me")
	require.True(t, res.OK, res.Err)

	op := m.RemoveGoalWorktree(ctx, path, "goal-11112222", res.Branch)
	require.True(t, op.OK, op.Err)
	assert.NoDirExists(t, res.Path)
	out := git(t, path, "branch", "--format=%(refname:short)")
	assert.NotContains(t, out, res.Branch)

	// Removing again is a no-op success.
	op = m.RemoveGoalWorktree(ctx, path, "goal-11112222", res.Branch)
	assert.True(t, op.OK, op.Err)
}

func TestManager_RemoveStrandWorkspace(t *testing.T) {
	m, _, path := newWorkspace(t)

	op := m.RemoveStrandWorkspace(path)
	require.True(t, op.OK, op.Err)
	assert.NoDirExists(t, path)

	// Absent path is a no-op success.
	op = m.RemoveStrandWorkspace(path)
	assert.True(t, op.OK, op.Err)
}

func TestManager_MainBranch(t *testing.T) {
	m, _, path := newWorkspace(t)

	branch, err := m.MainBranch(path)
	require.NoError(t, err)
	assert.Contains(t, []string{"main", "master"}, branch)

	_, err = m.MainBranch(t.TempDir())
	assert.Error(t, err)
}

func TestManager_MergeGoalBranch(t *testing.T) {
	m, _, path := newWorkspace(t)
	ctx := context.Background()

	res := m.CreateGoalWorktree(ctx, path, "goal-11112222", "Feature")
	require.True(t, res.OK, res.Err)
	commitFile(t, res.Path, "feature.txt", "feature work\n", "add feature")

	merge := m.MergeGoalBranch(ctx, path, res.Branch)
	require.True(t, merge.OK, merge.Err)
	assert.True(t, merge.Merged)
	assert.False(t, merge.Conflict)
	assert.FileExists(t, filepath.Join(path, "feature.txt"))
}

func TestManager_MergeGoalBranch_MissingBranch(t *testing.T) {
	m, _, path := newWorkspace(t)

	merge := m.MergeGoalBranch(context.Background(), path, "goal/never-created")
	assert.False(t, merge.OK)
	assert.False(t, merge.Conflict)
	assert.Contains(t, merge.Err, "branch not found")
}

func TestManager_MergeGoalBranch_ConflictAborts(t *testing.T) {
	m, _, path := newWorkspace(t)
	ctx := context.Background()

	// Shared file on main so both sides edit the same lines.
	commitFile(t, path, "shared.txt", "original\n", "add shared")

	res := m.CreateGoalWorktree(ctx, path, "goal-11112222", "Conflicting")
	require.True(t, res.OK, res.Err)
	commitFile(t, res.Path, "shared.txt", "goal version\n", "goal edit")
	commitFile(t, path, "shared.txt", "main version\n", "main edit")

	statusBefore, err := m.BranchStatus(path, res.Branch)
	require.NoError(t, err)
	headBefore := strings.TrimSpace(git(t, path, "rev-parse", "HEAD"))

	merge := m.MergeGoalBranch(ctx, path, res.Branch)
	assert.False(t, merge.OK)
	assert.True(t, merge.Conflict)
	assert.NotEmpty(t, merge.Err)

	// Merge was aborted: tree pristine, no partial merge state.
	content, err := os.ReadFile(filepath.Join(path, "shared.txt"))
	require.NoError(t, err)
	assert.Equal(t, "main version\n", string(content))
	assert.Empty(t, strings.TrimSpace(git(t, path, "status", "--porcelain")))
	assert.Equal(t, headBefore, strings.TrimSpace(git(t, path, "rev-parse", "HEAD")))

	statusAfter, err := m.BranchStatus(path, res.Branch)
	require.NoError(t, err)
	assert.Equal(t, statusBefore, statusAfter)
}

func TestManager_BranchStatus(t *testing.T) {
	m, _, path := newWorkspace(t)
	ctx := context.Background()

	res := m.CreateGoalWorktree(ctx, path, "goal-11112222", "Tracked")
	require.True(t, res.OK, res.Err)

	status, err := m.BranchStatus(path, res.Branch)
	require.NoError(t, err)
	assert.Equal(t, domain.BranchStatus{}, status)

	commitFile(t, res.Path, "a.txt", "a\n", "goal commit 1")
	commitFile(t, res.Path, "b.txt", "b\n", "goal commit 2")
	commitFile(t, path, "c.txt", "c\n", "main commit")

	status, err = m.BranchStatus(path, res.Branch)
	require.NoError(t, err)
	assert.Equal(t, 2, status.Ahead)
	assert.Equal(t, 1, status.Behind)

	_, err = m.BranchStatus(path, "goal/missing")
	assert.Error(t, err)
}
