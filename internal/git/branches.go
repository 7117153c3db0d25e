package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	gluerrors "glu.dev/glu/internal/errors"
)

// CurrentBranch returns the name of the checked-out branch.
// Returns ErrDetachedHead when HEAD does not point at a branch.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.gogit.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", gluerrors.ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// BranchNames returns the names of all local branches.
func (r *Repo) BranchNames() ([]string, error) {
	iter, err := r.gogit.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// BranchExists reports whether a local branch exists.
func (r *Repo) BranchExists(branchName string) (bool, error) {
	_, err := r.gogit.Reference(plumbing.NewBranchReferenceName(branchName), false)
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up branch %s: %w", branchName, err)
	}
	return true, nil
}

// Revision resolves a revision expression (branch, SHA, HEAD~N, ...) to a full SHA.
func (r *Repo) Revision(rev string) (string, error) {
	if ref, err := r.gogit.Reference(plumbing.NewBranchReferenceName(rev), true); err == nil {
		return ref.Hash().String(), nil
	}
	hash, err := r.gogit.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("failed to resolve revision %s: %w", rev, err)
	}
	return hash.String(), nil
}

// Upstream returns the remote-tracking ref of the current branch, e.g. "origin/main".
// Returns ErrUpstreamNotFound when no upstream is configured or it has not been fetched.
func (r *Repo) Upstream(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		var cmdErr *gluerrors.GitCommandError
		if errors.As(err, &cmdErr) && !strings.Contains(cmdErr.Stderr, "upstream") {
			return "", err
		}
		return "", gluerrors.ErrUpstreamNotFound
	}
	return out, nil
}
