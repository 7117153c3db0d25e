package git

import (
	"context"
	"fmt"
)

// IndexedCommit is a commit with its 1-based position within the unpushed
// range of the current branch, oldest first.
type IndexedCommit struct {
	Commit
	Position int
}

// UnpushedCommits returns the commits on the current branch that are absent
// from its upstream, oldest first, with contiguous 1-based positions.
func (r *Repo) UnpushedCommits(ctx context.Context) ([]IndexedCommit, error) {
	upstream, err := r.Upstream(ctx)
	if err != nil {
		return nil, err
	}
	return r.CommitsBetween(ctx, upstream, "HEAD")
}

// CommitsBetween returns base..head oldest first with 1-based positions.
func (r *Repo) CommitsBetween(ctx context.Context, base, head string) ([]IndexedCommit, error) {
	shas, err := r.runner.RunLines(ctx, "rev-list", "--reverse", base+".."+head)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits %s..%s: %w", base, head, err)
	}

	commits := make([]IndexedCommit, 0, len(shas))
	for i, sha := range shas {
		commit, err := r.ReadCommit(sha)
		if err != nil {
			return nil, err
		}
		commits = append(commits, IndexedCommit{Commit: commit, Position: i + 1})
	}
	return commits, nil
}
