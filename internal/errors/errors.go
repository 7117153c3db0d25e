// Package errors provides sentinel errors and custom error types for the glu application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrWorkingTreeDirty indicates uncommitted changes in the working tree
	ErrWorkingTreeDirty = errors.New("working tree has uncommitted changes")

	// ErrDetachedHead indicates that HEAD is not on a branch
	ErrDetachedHead = errors.New("not on a branch")

	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrUpstreamNotFound indicates that the current branch has no upstream configured
	ErrUpstreamNotFound = errors.New("no upstream branch configured")

	// ErrRangeInvalid indicates an invalid commit range selection
	ErrRangeInvalid = errors.New("invalid commit range")

	// ErrCherryPickConflict indicates that a cherry-pick stopped on conflicts
	ErrCherryPickConflict = errors.New("cherry-pick conflict")

	// ErrBranchAlreadyExists indicates that the review branch name is taken
	ErrBranchAlreadyExists = errors.New("branch already exists")

	// ErrPushRejected indicates that the remote refused a push
	ErrPushRejected = errors.New("push rejected")

	// ErrRootCommitInRange indicates that a rewrite range includes the repository's
	// root commit, which has no parent to rebuild from
	ErrRootCommitInRange = errors.New("range includes the root commit")
)

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// RangeInvalidError represents an invalid selection over the unpushed stack
type RangeInvalidError struct {
	Start, End int
	StackSize  int
	Reason     string
}

func (e *RangeInvalidError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid range %d-%d: %s", e.Start, e.End, e.Reason)
	}
	return fmt.Sprintf("invalid range %d-%d for a stack of %d commits", e.Start, e.End, e.StackSize)
}

// Is returns true if the target error is ErrRangeInvalid
func (e *RangeInvalidError) Is(target error) bool {
	return target == ErrRangeInvalid
}

// CherryPickConflictError reports a cherry-pick that stopped on merge conflicts.
// The in-progress pick has already been aborted by the time this is returned,
// so the working tree is back at its pre-attempt state.
type CherryPickConflictError struct {
	CommitHash       string
	CommitSubject    string
	Position         int // 1-based position of the failing commit
	Total            int
	Applied          int // commits applied successfully before the failure
	ConflictingFiles []string
}

func (e *CherryPickConflictError) Error() string {
	return fmt.Sprintf("cherry-pick of commit %d/%d (%s) conflicts in: %s",
		e.Position, e.Total, shortHash(e.CommitHash), strings.Join(e.ConflictingFiles, ", "))
}

// Is returns true if the target error is ErrCherryPickConflict
func (e *CherryPickConflictError) Is(target error) bool {
	return target == ErrCherryPickConflict
}

// CherryPickFailedError reports a cherry-pick that failed for a reason other
// than merge conflicts.
type CherryPickFailedError struct {
	CommitHash    string
	CommitSubject string
	Position      int
	Total         int
	Err           error
}

func (e *CherryPickFailedError) Error() string {
	return fmt.Sprintf("cherry-pick of commit %d/%d (%s) failed: %v",
		e.Position, e.Total, shortHash(e.CommitHash), e.Err)
}

func (e *CherryPickFailedError) Unwrap() error {
	return e.Err
}

// PushRejectedError represents a push refused by the remote (non-fast-forward)
type PushRejectedError struct {
	BranchName string
	Remote     string
	Err        error
}

func (e *PushRejectedError) Error() string {
	return fmt.Sprintf("push of %s to %s rejected (non-fast-forward)", e.BranchName, e.Remote)
}

// Is returns true if the target error is ErrPushRejected
func (e *PushRejectedError) Is(target error) bool {
	return target == ErrPushRejected
}

func (e *PushRejectedError) Unwrap() error {
	return e.Err
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
