// Package transport delivers worker assignments. The core only needs
// "accepted"; this implementation drops the assignment as a markdown
// prompt file where the external session runner picks it up.
package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runoshun/loom/internal/domain"
)

// FileTransport writes assignment prompts into the goal worktree (or a
// fallback directory when the goal has none).
type FileTransport struct {
	fallbackDir string
}

// NewFileTransport creates a FileTransport. fallbackDir receives prompts
// for tasks whose goal has no worktree.
func NewFileTransport(fallbackDir string) *FileTransport {
	return &FileTransport{fallbackDir: fallbackDir}
}

// Ensure FileTransport implements the port.
var _ domain.SessionTransport = (*FileTransport)(nil)

// Deliver writes the assignment prompt. Delivery is accepted once the
// file is durably in place.
func (t *FileTransport) Deliver(ctx context.Context, sessionKey string, a domain.AssignmentContext) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := a.WorkDir
	if dir == "" {
		dir = t.fallbackDir
	}
	if dir == "" {
		return fmt.Errorf("deliver %s: no delivery directory", sessionKey)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("deliver %s: %w", sessionKey, err)
	}

	path := filepath.Join(dir, domain.AssignmentFileName(sessionKey))
	if err := os.WriteFile(path, []byte(Render(a)), 0o600); err != nil {
		return fmt.Errorf("deliver %s: %w", sessionKey, err)
	}
	return nil
}

// Render formats an assignment as a markdown prompt.
func Render(a domain.AssignmentContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Assignment %s\n\n", a.TaskID)
	fmt.Fprintf(&b, "Session: %s\n\n", a.SessionKey)
	fmt.Fprintf(&b, "## Task\n\n%s\n", a.Text)
	if a.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", a.Description)
	}
	fmt.Fprintf(&b, "\n## Operating mode\n\n%s\n", a.Directive)
	if a.PlanRef != "" {
		fmt.Fprintf(&b, "\n## Plan context\n\n%s\n", a.PlanRef)
	}
	return b.String()
}
