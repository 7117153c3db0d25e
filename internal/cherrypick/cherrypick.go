// Package cherrypick applies ordered commit sequences onto a target branch,
// distinguishing merge conflicts from other failures and leaving the
// repository clean on either outcome.
package cherrypick

import (
	"context"

	gluerrors "glu.dev/glu/internal/errors"
	"glu.dev/glu/internal/git"
)

// Orchestrator drives cherry-picks through the git gateway. Commits are
// applied strictly in caller order; conflicts always surface, never resolved
// automatically.
type Orchestrator struct {
	repo *git.Repo
}

// NewOrchestrator creates an Orchestrator over the given repository
func NewOrchestrator(repo *git.Repo) *Orchestrator {
	return &Orchestrator{repo: repo}
}

// EnsureOnBranch checks out the target branch only if not already there
func (o *Orchestrator) EnsureOnBranch(ctx context.Context, target string) error {
	current, err := o.repo.CurrentBranch()
	if err == nil && current == target {
		return nil
	}
	return o.repo.CheckoutBranch(ctx, target)
}

// Apply cherry-picks the commits in order onto the target branch.
//
// A pick that stops on merge conflicts is aborted (restoring the pre-attempt
// working tree) and reported as CherryPickConflictError with the conflicting
// paths and partial progress. Any other failure is reported as
// CherryPickFailedError; no abort is attempted since no pick is in progress.
func (o *Orchestrator) Apply(ctx context.Context, commits []git.IndexedCommit, target string) error {
	if err := o.EnsureOnBranch(ctx, target); err != nil {
		return err
	}

	total := len(commits)
	for i, commit := range commits {
		err := o.repo.CherryPick(ctx, commit.Hash)
		if err == nil {
			continue
		}

		conflicting, pathsErr := o.repo.UnmergedFiles(ctx)
		if pathsErr == nil && len(conflicting) > 0 {
			abortErr := o.repo.CherryPickAbort(ctx)
			_ = abortErr // the conflict is the error worth reporting
			return &gluerrors.CherryPickConflictError{
				CommitHash:       commit.Hash,
				CommitSubject:    commit.Subject,
				Position:         i + 1,
				Total:            total,
				Applied:          i,
				ConflictingFiles: conflicting,
			}
		}

		return &gluerrors.CherryPickFailedError{
			CommitHash:    commit.Hash,
			CommitSubject: commit.Subject,
			Position:      i + 1,
			Total:         total,
			Err:           err,
		}
	}
	return nil
}

// Abort aborts any in-progress cherry-pick. It is idempotent: with no pick in
// progress it succeeds silently.
func (o *Orchestrator) Abort(ctx context.Context) error {
	return o.repo.CherryPickAbort(ctx)
}

// IsContiguous reports whether positionally-indexed commits form an unbroken
// run, each position exactly one more than the previous. Callers use it to
// decide whether partial-stack operations are safe; Apply itself does not
// enforce it.
func IsContiguous(commits []git.IndexedCommit) bool {
	for i := 1; i < len(commits); i++ {
		if commits[i].Position != commits[i-1].Position+1 {
			return false
		}
	}
	return true
}
