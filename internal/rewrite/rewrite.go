// Package rewrite guarantees that every commit in a stack carries a Glu-ID
// trailer, rewriting exactly the commits that lack one via a disposable
// staging branch and updating the original branch pointer atomically.
package rewrite

import (
	"context"
	"fmt"
	"time"

	gluerrors "glu.dev/glu/internal/errors"
	"glu.dev/glu/internal/git"
	"glu.dev/glu/internal/identity"
)

// StagingPrefix namespaces every disposable branch the engine creates, so a
// later invocation can recognize leftovers from a killed process.
const StagingPrefix = "glu/tmp/"

// Result reports what a rewrite did. Modified == 0 means no hash changed and
// previously-resolved commit objects remain valid; anything else means every
// hash at and after the first modified commit changed and must be re-resolved.
type Result struct {
	Processed int
	Modified  int
}

// Engine rewrites commit stacks in place
type Engine struct {
	repo *git.Repo
}

// NewEngine creates a rewrite engine over the given repository
func NewEngine(repo *git.Repo) *Engine {
	return &Engine{repo: repo}
}

// InjectIdentities ensures every commit in the ordered, oldest-first,
// contiguous list carries an identity. Content and order are preserved;
// commits that already have an identity are applied unchanged.
//
// The original ref is untouched until the single update-ref at the end, which
// is the transactional commit point. On any earlier failure the engine makes
// a best-effort return to the original branch and deletes the staging branch
// before re-raising.
func (e *Engine) InjectIdentities(ctx context.Context, branchName string, commits []git.IndexedCommit) (Result, error) {
	result := Result{Processed: len(commits)}
	if len(commits) == 0 {
		return result, nil
	}

	// Fast path: after first use most stacks are fully tagged already
	needsRewrite := false
	for _, commit := range commits {
		if !identity.HasIdentity(commit.Body) {
			needsRewrite = true
			break
		}
	}
	if !needsRewrite {
		return result, nil
	}

	base, err := e.repo.ParentHash(ctx, commits[0].Hash)
	if err != nil {
		return result, fmt.Errorf("%w: %v", gluerrors.ErrRootCommitInRange, err)
	}

	// Commits above the rewritten range must be carried over unmodified, or
	// the ref update at the end would truncate the branch.
	originalHead, err := e.repo.Revision(branchName)
	if err != nil {
		return result, err
	}
	tail, err := e.repo.CommitsBetween(ctx, commits[len(commits)-1].Hash, originalHead)
	if err != nil {
		return result, err
	}

	staging := stagingBranchName("inject")
	if err := e.repo.CreateAndCheckoutBranchAt(ctx, staging, base); err != nil {
		return result, err
	}

	modified, err := e.replayWithIdentities(ctx, commits)
	if err != nil {
		e.cleanupFailed(ctx, branchName, staging)
		return result, err
	}
	result.Modified = modified

	for _, commit := range tail {
		if err := e.repo.CherryPick(ctx, commit.Hash); err != nil {
			e.cleanupFailed(ctx, branchName, staging)
			return result, fmt.Errorf("failed to replay commit %s: %w", commit.Hash, err)
		}
	}

	head, err := e.repo.HeadHash(ctx)
	if err != nil {
		e.cleanupFailed(ctx, branchName, staging)
		return result, err
	}

	// The transactional commit point: one atomic ref update moves the
	// original branch onto the rewritten history.
	if err := e.repo.UpdateBranchRef(ctx, branchName, head); err != nil {
		e.cleanupFailed(ctx, branchName, staging)
		return result, err
	}

	if err := e.repo.CheckoutBranch(ctx, branchName); err != nil {
		return result, err
	}
	if err := e.repo.DeleteBranch(ctx, staging); err != nil {
		return result, err
	}

	return result, nil
}

// replayWithIdentities cherry-picks each commit in order onto HEAD, amending
// in a fresh identity where one is missing.
func (e *Engine) replayWithIdentities(ctx context.Context, commits []git.IndexedCommit) (int, error) {
	modified := 0
	for _, commit := range commits {
		if err := e.repo.CherryPick(ctx, commit.Hash); err != nil {
			return modified, fmt.Errorf("failed to replay commit %s: %w", commit.Hash, err)
		}

		if identity.HasIdentity(commit.Body) {
			continue
		}

		tagged := identity.Embed(commit.Body, "")
		if err := e.repo.AmendMessage(ctx, tagged); err != nil {
			return modified, err
		}
		modified++
	}
	return modified, nil
}

// cleanupFailed makes a best-effort return to the original branch and removes
// the staging branch. Failures here are deliberately dropped so the root
// cause propagates.
func (e *Engine) cleanupFailed(ctx context.Context, branchName, staging string) {
	_ = e.repo.CherryPickAbort(ctx)
	_ = e.repo.CheckoutBranch(ctx, branchName)
	_ = e.repo.DeleteBranch(ctx, staging)
}

// FindOrphanedStagingBranches returns leftover staging branches from a
// process killed mid-rewrite.
func FindOrphanedStagingBranches(repo *git.Repo) ([]string, error) {
	names, err := repo.BranchNames()
	if err != nil {
		return nil, err
	}
	var orphans []string
	for _, name := range names {
		if len(name) > len(StagingPrefix) && name[:len(StagingPrefix)] == StagingPrefix {
			orphans = append(orphans, name)
		}
	}
	return orphans, nil
}

func stagingBranchName(kind string) string {
	return fmt.Sprintf("%s%s-%d", StagingPrefix, kind, time.Now().UnixNano())
}
