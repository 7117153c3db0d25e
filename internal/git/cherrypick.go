package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// CherryPick applies a single commit onto HEAD.
// A conflict surfaces as the underlying GitCommandError; classification is
// the caller's job via UnmergedFiles.
func (r *Repo) CherryPick(ctx context.Context, sha string) error {
	_, err := r.runner.Run(ctx, "cherry-pick", sha)
	return err
}

// CherryPickInProgress reports whether a cherry-pick has stopped midway.
func (r *Repo) CherryPickInProgress() bool {
	_, err := os.Stat(filepath.Join(r.gitDir, "CHERRY_PICK_HEAD"))
	return err == nil
}

// CherryPickAbort aborts an in-progress cherry-pick, restoring the working
// tree. Calling it with no cherry-pick in progress succeeds silently.
func (r *Repo) CherryPickAbort(ctx context.Context) error {
	if !r.CherryPickInProgress() {
		return nil
	}
	_, err := r.runner.Run(ctx, "cherry-pick", "--abort")
	if err != nil {
		return fmt.Errorf("failed to abort cherry-pick: %w", err)
	}
	return nil
}
