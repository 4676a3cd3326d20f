package domain

import (
	"path/filepath"
	"strings"
)

// branchNamespace is the prefix under which all goal branches live.
const branchNamespace = "goal/"

// slugMaxLen bounds the length of generated slugs.
const slugMaxLen = 40

// slugFallback is used when slugification produces an empty string.
const slugFallback = "strand"

// idFragLen is the number of identifier characters appended for uniqueness.
const idFragLen = 8

// Slugify lowercases s, collapses non-alphanumeric runs to single hyphens,
// trims leading/trailing hyphens, and truncates to a bounded length.
// Returns "" when nothing usable remains.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > slugMaxLen {
		slug = strings.Trim(slug[:slugMaxLen], "-")
	}
	return slug
}

// IDFragment returns a short fragment of an entity ID for uniqueness
// suffixes. IDs carry a "prefix-" header; the fragment is taken from the
// part after it.
func IDFragment(id string) string {
	if i := strings.LastIndexByte(id, '-'); i >= 0 && i+1 < len(id) {
		id = id[i+1:]
	}
	if len(id) > idFragLen {
		id = id[:idFragLen]
	}
	return id
}

// WorkspaceDirName derives the directory name for a strand workspace from
// the strand name and ID. Falls back to a fixed placeholder when the name
// slugifies to nothing.
func WorkspaceDirName(name, strandID string) string {
	slug := Slugify(name)
	if slug == "" {
		slug = slugFallback
	}
	return slug + "-" + IDFragment(strandID)
}

// GoalBranchName derives the branch name for a goal from its title, under
// the goal branch namespace. Uses the raw goal ID when there is no title.
func GoalBranchName(goalID, title string) string {
	slug := Slugify(title)
	if slug == "" {
		return branchNamespace + goalID
	}
	return branchNamespace + slug
}

// DisambiguateBranch appends a goal ID fragment to a branch name that
// collides with an existing branch owned by a different goal.
func DisambiguateBranch(branch, goalID string) string {
	return branch + "-" + IDFragment(goalID)
}

// GoalsDirName is the subdirectory of a workspace that holds goal worktrees.
const GoalsDirName = "goals"

// GoalWorktreePath returns the path of a goal's worktree inside a workspace.
func GoalWorktreePath(workspacePath, goalID string) string {
	return filepath.Join(workspacePath, GoalsDirName, goalID)
}

// DocumentPath returns the path to the persisted document.
func DocumentPath(dataDir string) string {
	return filepath.Join(dataDir, "loom.json")
}

// LogPath returns the path to the global log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "loom.log")
}

// DefaultWorkspaceBase returns the default base directory for strand
// workspaces.
func DefaultWorkspaceBase(dataDir string) string {
	return filepath.Join(dataDir, "workspaces")
}

// AssignmentFileName returns the file name used to deliver an assignment
// prompt into a worktree.
func AssignmentFileName(sessionKey string) string {
	return "assignment-" + sessionKey + ".md"
}
