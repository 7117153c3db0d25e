package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gluerrors "glu.dev/glu/internal/errors"
)

// CheckoutBranch checks out an existing branch.
// Returns BranchNotFoundError when the branch does not exist.
func (r *Repo) CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "checkout", branchName)
	if err != nil {
		var cmdErr *gluerrors.GitCommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "did not match any") {
			return gluerrors.NewBranchNotFoundError(branchName)
		}
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CreateAndCheckoutBranchAt creates a branch at the given start point and checks it out
func (r *Repo) CreateAndCheckoutBranchAt(ctx context.Context, branchName, startPoint string) error {
	args := []string{"checkout", "-b", branchName}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	_, err := r.runner.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CreateBranchAt creates a branch pointing at the given revision without checking it out
func (r *Repo) CreateBranchAt(ctx context.Context, branchName, revision string) error {
	_, err := r.runner.Run(ctx, "branch", branchName, revision)
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branchName, err)
	}
	return nil
}

// DeleteBranch force-deletes a branch
func (r *Repo) DeleteBranch(ctx context.Context, branchName string) error {
	_, err := r.runner.Run(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// UpdateBranchRef points a branch at a new commit with a single atomic ref update.
// This is the transactional commit point of a history rewrite.
func (r *Repo) UpdateBranchRef(ctx context.Context, branchName, commitSHA string) error {
	_, err := r.runner.Run(ctx, "update-ref", "refs/heads/"+branchName, commitSHA)
	if err != nil {
		return fmt.Errorf("failed to update branch ref: %w", err)
	}
	return nil
}
