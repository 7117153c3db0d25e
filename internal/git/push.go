package git

import (
	"context"
	"errors"
	"strings"

	gluerrors "glu.dev/glu/internal/errors"
)

// Push pushes a branch to the remote and sets it as upstream.
// A non-fast-forward rejection is reported as PushRejectedError.
func (r *Repo) Push(ctx context.Context, branchName, remote string) error {
	_, err := r.runner.Run(ctx, "push", "-u", remote, branchName)
	if err == nil {
		return nil
	}

	var cmdErr *gluerrors.GitCommandError
	if errors.As(err, &cmdErr) {
		combined := cmdErr.Stderr + cmdErr.Stdout
		if strings.Contains(combined, "non-fast-forward") ||
			strings.Contains(combined, "fetch first") ||
			strings.Contains(combined, "[rejected]") {
			return &gluerrors.PushRejectedError{BranchName: branchName, Remote: remote, Err: err}
		}
	}
	return err
}
