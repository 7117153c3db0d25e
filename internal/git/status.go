package git

import (
	"context"
	"fmt"
	"strings"
)

// IsWorkingTreeClean reports whether there are no staged, unstaged or
// untracked changes.
func (r *Repo) IsWorkingTreeClean(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check working tree status: %w", err)
	}
	return strings.TrimSpace(output) == "", nil
}

// UnmergedFiles returns the paths currently in conflict
func (r *Repo) UnmergedFiles(ctx context.Context) ([]string, error) {
	lines, err := r.runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	return lines, nil
}
