package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	gluerrors "glu.dev/glu/internal/errors"
	"glu.dev/glu/internal/output"
)

// Exit codes, one per error kind, so scripts can dispatch on failures
const (
	exitUnexpected         = 1
	exitWorkingTreeDirty   = 2
	exitRangeInvalid       = 3
	exitBranchNotFound     = 4
	exitUpstreamNotFound   = 5
	exitDetachedHead       = 6
	exitCherryPickConflict = 7
	exitBranchExists       = 8
	exitPushRejected       = 9
)

// ReportError prints a remediation message for the error and returns the
// matching exit code. Called from main after Execute fails so deferred
// cleanup inside commands still runs.
func ReportError(err error) int {
	var conflictErr *gluerrors.CherryPickConflictError

	switch {
	case errors.As(err, &conflictErr):
		fmt.Fprintln(os.Stderr, output.ErrorStyle.Render("Cherry-pick hit conflicts and was aborted."))
		fmt.Fprintf(os.Stderr, "Commit %d of %d (%s) conflicts with the review branch in:\n",
			conflictErr.Position, conflictErr.Total, conflictErr.CommitSubject)
		for _, path := range conflictErr.ConflictingFiles {
			fmt.Fprintf(os.Stderr, "  %s\n", path)
		}
		fmt.Fprintln(os.Stderr, "\nNothing was changed. Either pick a range that excludes this commit,")
		fmt.Fprintln(os.Stderr, "or rebase your stack so the conflicting change comes first.")
		return exitCherryPickConflict

	case errors.Is(err, gluerrors.ErrWorkingTreeDirty):
		fmt.Fprintln(os.Stderr, "Your working tree has uncommitted changes.")
		fmt.Fprintln(os.Stderr, "Commit or stash them, then re-run the command.")
		return exitWorkingTreeDirty

	case errors.Is(err, gluerrors.ErrRangeInvalid):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'glu list' or 'git log @{upstream}..' to see the unpushed stack.")
		return exitRangeInvalid

	case errors.Is(err, gluerrors.ErrUpstreamNotFound):
		fmt.Fprintln(os.Stderr, "The current branch has no upstream, so the unpushed range is undefined.")
		fmt.Fprintln(os.Stderr, "Set one with 'git branch --set-upstream-to=<remote>/<branch>'.")
		return exitUpstreamNotFound

	case errors.Is(err, gluerrors.ErrDetachedHead):
		fmt.Fprintln(os.Stderr, "HEAD is detached. Check out a branch and try again.")
		return exitDetachedHead

	case errors.Is(err, gluerrors.ErrBranchNotFound):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitBranchNotFound

	case errors.Is(err, gluerrors.ErrBranchAlreadyExists):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Fprintln(os.Stderr, "Pass --force to replace it, or --branch-name to pick another name.")
		return exitBranchExists

	case errors.Is(err, gluerrors.ErrPushRejected):
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Fprintln(os.Stderr, "The remote branch has commits you don't have locally. Fetch and retry.")
		return exitPushRejected

	default:
		msg := strings.TrimSpace(err.Error())
		fmt.Fprintln(os.Stderr, output.ErrorStyle.Render("Error:"), msg)
		return exitUnexpected
	}
}
