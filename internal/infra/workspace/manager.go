// Package workspace maps strand and goal identities to isolated
// version-control state: one repository per strand, one branch-backed
// worktree per goal, merged back into the main line on completion.
package workspace

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/runoshun/loom/internal/domain"
)

// Manager implements domain.WorkspaceManager by shelling out to git for
// mutations and using go-git for read-only repository inspection. Tool
// failures never escape raw; they are translated into result fields.
type Manager struct{}

// NewManager creates a new workspace manager.
func NewManager() *Manager {
	return &Manager{}
}

// Ensure Manager implements the port.
var _ domain.WorkspaceManager = (*Manager)(nil)

// CreateStrandWorkspace initializes a repository for a strand under
// baseDir, with an initial empty commit and a goals subdirectory.
// When remoteURL is set the repository is cloned instead; an invalid
// remote is reported through the result, never panicked. Idempotent:
// an existing workspace returns Existed=true and is left untouched.
func (m *Manager) CreateStrandWorkspace(ctx context.Context, baseDir, strandID, name, remoteURL string) domain.WorkspaceResult {
	dir := filepath.Join(baseDir, domain.WorkspaceDirName(name, strandID))

	if isRepo(dir) {
		return domain.WorkspaceResult{OK: true, Existed: true, Path: dir}
	}

	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return domain.WorkspaceResult{Err: fmt.Sprintf("create base directory: %v", err)}
	}

	if remoteURL != "" {
		if _, err := run(ctx, baseDir, "clone", remoteURL, dir); err != nil {
			// A failed clone can leave a partial directory behind.
			_ = os.RemoveAll(dir)
			return domain.WorkspaceResult{Err: fmt.Sprintf("clone %s: %v", remoteURL, err)}
		}
	} else {
		if _, err := run(ctx, baseDir, "init", dir); err != nil {
			return domain.WorkspaceResult{Err: fmt.Sprintf("init repository: %v", err)}
		}
	}

	if err := ensureIdentity(ctx, dir); err != nil {
		return domain.WorkspaceResult{Err: err.Error()}
	}

	// A freshly initialized (or empty-remote) repository has no commits yet.
	if _, err := run(ctx, dir, "rev-parse", "--verify", "HEAD"); err != nil {
		if _, err := run(ctx, dir, "commit", "--allow-empty", "-m", "initial commit"); err != nil {
			return domain.WorkspaceResult{Err: fmt.Sprintf("initial commit: %v", err)}
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, domain.GoalsDirName), 0o750); err != nil {
		return domain.WorkspaceResult{Err: fmt.Sprintf("create goals directory: %v", err)}
	}

	return domain.WorkspaceResult{OK: true, Path: dir}
}

// CreateGoalWorktree creates an isolated working copy for a goal branch at
// workspacePath/goals/<goalID>. The branch name is derived from the
// slugified title; a collision with an existing branch is disambiguated
// deterministically with a goal ID fragment. Idempotent: an existing
// worktree returns Existed=true with its current branch.
func (m *Manager) CreateGoalWorktree(ctx context.Context, workspacePath, goalID, title string) domain.WorktreeResult {
	path := domain.GoalWorktreePath(workspacePath, goalID)

	if !isRepo(workspacePath) {
		return domain.WorktreeResult{Err: fmt.Sprintf("not a repository: %s", workspacePath)}
	}

	if _, err := os.Stat(path); err == nil {
		branch, err := currentBranch(ctx, path)
		if err != nil {
			return domain.WorktreeResult{Err: fmt.Sprintf("inspect existing worktree: %v", err)}
		}
		return domain.WorktreeResult{OK: true, Existed: true, Path: path, Branch: branch}
	}

	branch := domain.GoalBranchName(goalID, title)
	exists, err := branchExists(ctx, workspacePath, branch)
	if err != nil {
		return domain.WorktreeResult{Err: err.Error()}
	}
	if exists {
		// Same slug, different goal. Suffix a goal ID fragment.
		branch = domain.DisambiguateBranch(branch, goalID)
		exists, err = branchExists(ctx, workspacePath, branch)
		if err != nil {
			return domain.WorktreeResult{Err: err.Error()}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return domain.WorktreeResult{Err: fmt.Sprintf("create goals directory: %v", err)}
	}

	var args []string
	if exists {
		args = []string{"worktree", "add", path, branch}
	} else {
		args = []string{"worktree", "add", "-b", branch, path}
	}
	if out, err := run(ctx, workspacePath, args...); err != nil {
		if strings.Contains(out, "already registered") {
			// Stale registration for a deleted directory. Prune and retry.
			if _, pruneErr := run(ctx, workspacePath, "worktree", "prune"); pruneErr != nil {
				return domain.WorktreeResult{Err: fmt.Sprintf("prune stale worktrees: %v", pruneErr)}
			}
			if _, err := run(ctx, workspacePath, args...); err != nil {
				return domain.WorktreeResult{Err: fmt.Sprintf("create worktree after prune: %v", err)}
			}
		} else {
			return domain.WorktreeResult{Err: fmt.Sprintf("create worktree: %v", err)}
		}
	}

	return domain.WorktreeResult{OK: true, Path: path, Branch: branch}
}

// RemoveGoalWorktree removes the goal's worktree and deletes its branch.
// Safe to call unconditionally during cleanup: missing worktrees and
// branches are a no-op success.
func (m *Manager) RemoveGoalWorktree(ctx context.Context, workspacePath, goalID, branchName string) domain.OpResult {
	path := domain.GoalWorktreePath(workspacePath, goalID)

	if _, err := os.Stat(path); err == nil {
		if _, err := run(ctx, workspacePath, "worktree", "remove", "--force", path); err != nil {
			// Fall back to removing the directory and pruning the
			// registration; degraded worktrees should not block cleanup.
			if rmErr := os.RemoveAll(path); rmErr != nil {
				return domain.OpResult{Err: fmt.Sprintf("remove worktree: %v", rmErr)}
			}
		}
	}
	_, _ = run(ctx, workspacePath, "worktree", "prune")

	if branchName != "" {
		if exists, err := branchExists(ctx, workspacePath, branchName); err == nil && exists {
			if _, err := run(ctx, workspacePath, "branch", "-D", branchName); err != nil {
				return domain.OpResult{Err: fmt.Sprintf("delete branch %s: %v", branchName, err)}
			}
		}
	}

	return domain.OpResult{OK: true}
}

// RemoveStrandWorkspace recursively deletes the workspace directory.
// No-op success when the path does not exist.
func (m *Manager) RemoveStrandWorkspace(workspacePath string) domain.OpResult {
	if _, err := os.Stat(workspacePath); os.IsNotExist(err) {
		return domain.OpResult{OK: true}
	}
	if err := os.RemoveAll(workspacePath); err != nil {
		return domain.OpResult{Err: fmt.Sprintf("remove workspace: %v", err)}
	}
	return domain.OpResult{OK: true}
}

// MainBranch returns the repository's default branch, tolerating either
// conventional name. Falls back to the branch HEAD points at.
func (m *Manager) MainBranch(workspacePath string) (string, error) {
	repo, err := gogit.PlainOpen(workspacePath)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	for _, name := range []string{"main", "master"} {
		if _, err := repo.Reference(plumbing.NewBranchReferenceName(name), false); err == nil {
			return name, nil
		}
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// MergeGoalBranch merges a goal branch into the main branch. A content
// conflict aborts the merge before returning, leaving the main working
// copy exactly as it was, and reports Conflict=true. Non-conflict
// failures (missing branch, tool errors) report Conflict=false.
func (m *Manager) MergeGoalBranch(ctx context.Context, workspacePath, branchName string) domain.MergeResult {
	mainBranch, err := m.MainBranch(workspacePath)
	if err != nil {
		return domain.MergeResult{Err: err.Error()}
	}

	exists, err := branchExists(ctx, workspacePath, branchName)
	if err != nil {
		return domain.MergeResult{Err: err.Error()}
	}
	if !exists {
		return domain.MergeResult{Err: fmt.Sprintf("branch not found: %s", branchName)}
	}

	if _, err := run(ctx, workspacePath, "checkout", mainBranch); err != nil {
		return domain.MergeResult{Err: fmt.Sprintf("checkout %s: %v", mainBranch, err)}
	}

	out, err := run(ctx, workspacePath, "merge", branchName)
	if err == nil {
		return domain.MergeResult{OK: true, Merged: true}
	}

	if isConflict(out) {
		// Mandatory cleanup: the main working copy must come back pristine.
		if _, abortErr := run(ctx, workspacePath, "merge", "--abort"); abortErr != nil {
			return domain.MergeResult{Conflict: true, Err: fmt.Sprintf("merge conflict; abort failed: %v", abortErr)}
		}
		return domain.MergeResult{Conflict: true, Err: fmt.Sprintf("merge conflict on %s", branchName)}
	}

	return domain.MergeResult{Err: fmt.Sprintf("merge %s: %v", branchName, err)}
}

// BranchStatus returns how many commits the branch is ahead of and behind
// the main branch. Errors for a nonexistent branch.
func (m *Manager) BranchStatus(workspacePath, branchName string) (domain.BranchStatus, error) {
	repo, err := gogit.PlainOpen(workspacePath)
	if err != nil {
		return domain.BranchStatus{}, fmt.Errorf("open repository: %w", err)
	}

	mainBranch, err := m.MainBranch(workspacePath)
	if err != nil {
		return domain.BranchStatus{}, err
	}

	branchRef, err := repo.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if err != nil {
		return domain.BranchStatus{}, fmt.Errorf("branch not found: %s", branchName)
	}
	mainRef, err := repo.Reference(plumbing.NewBranchReferenceName(mainBranch), true)
	if err != nil {
		return domain.BranchStatus{}, fmt.Errorf("resolve %s: %w", mainBranch, err)
	}

	branchCommit, err := repo.CommitObject(branchRef.Hash())
	if err != nil {
		return domain.BranchStatus{}, fmt.Errorf("read branch commit: %w", err)
	}
	mainCommit, err := repo.CommitObject(mainRef.Hash())
	if err != nil {
		return domain.BranchStatus{}, fmt.Errorf("read main commit: %w", err)
	}

	bases, err := branchCommit.MergeBase(mainCommit)
	if err != nil {
		return domain.BranchStatus{}, fmt.Errorf("merge base: %w", err)
	}
	stop := make(map[plumbing.Hash]bool, len(bases))
	for _, base := range bases {
		stop[base.Hash] = true
	}

	ahead, err := countCommits(branchCommit, stop)
	if err != nil {
		return domain.BranchStatus{}, err
	}
	behind, err := countCommits(mainCommit, stop)
	if err != nil {
		return domain.BranchStatus{}, err
	}

	return domain.BranchStatus{Ahead: ahead, Behind: behind}, nil
}

// countCommits counts commits reachable from head without crossing the
// stop set.
func countCommits(head *object.Commit, stop map[plumbing.Hash]bool) (int, error) {
	if stop[head.Hash] {
		return 0, nil
	}

	seen := map[plumbing.Hash]bool{head.Hash: true}
	queue := []*object.Commit{head}
	count := 0

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		count++

		for i := 0; i < c.NumParents(); i++ {
			p, err := c.Parent(i)
			if err != nil {
				return 0, fmt.Errorf("walk commits: %w", err)
			}
			if seen[p.Hash] || stop[p.Hash] {
				continue
			}
			seen[p.Hash] = true
			queue = append(queue, p)
		}
	}
	return count, nil
}

// run executes git with the given arguments in dir, returning combined
// output. Errors include the tool output for diagnosis.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// isRepo reports whether dir is the root of a git repository.
func isRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// currentBranch returns the branch checked out in dir.
func currentBranch(ctx context.Context, dir string) (string, error) {
	out, err := run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// branchExists checks if a local branch exists.
func branchExists(ctx context.Context, dir, branch string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	cmd.Dir = dir
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("check branch %s: %w", branch, err)
}

// ensureIdentity sets a repository-local commit identity when none is
// configured, so workspace commits succeed on hosts without global git
// config.
func ensureIdentity(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "config", "user.email")
	cmd.Dir = dir
	if err := cmd.Run(); err == nil {
		return nil
	}
	if _, err := run(ctx, dir, "config", "user.name", "loom"); err != nil {
		return fmt.Errorf("set commit identity: %w", err)
	}
	if _, err := run(ctx, dir, "config", "user.email", "loom@localhost"); err != nil {
		return fmt.Errorf("set commit identity: %w", err)
	}
	return nil
}

// isConflict reports whether merge output indicates conflicting changes.
func isConflict(out string) bool {
	return strings.Contains(out, "CONFLICT") || strings.Contains(out, "Automatic merge failed")
}
