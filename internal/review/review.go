// Package review publishes a subset of the current patch stack as an
// independent review branch: it guarantees identities, stages the commits on
// a disposable branch, materializes the named branch, records locations in
// the tracking graph and optionally pushes. Any failure rolls the repository
// back to its starting state and propagates the original error.
package review

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"glu.dev/glu/internal/branchname"
	"glu.dev/glu/internal/cherrypick"
	"glu.dev/glu/internal/config"
	gluerrors "glu.dev/glu/internal/errors"
	"glu.dev/glu/internal/git"
	"glu.dev/glu/internal/identity"
	"glu.dev/glu/internal/output"
	"glu.dev/glu/internal/rewrite"
	"glu.dev/glu/internal/tracking"
)

// Options controls a review-branch run
type Options struct {
	Start      int    // 1-based position of the first commit in the unpushed stack
	End        int    // 1-based position of the last commit, inclusive
	BranchName string // overrides the generated name when non-empty
	Force      bool   // delete an existing branch of the same name first
	Push       bool
	Remote     string // defaults to the configured remote
	Progress   ProgressFunc
}

// Result reports what a successful run produced
type Result struct {
	BranchName         string
	Commits            []git.IndexedCommit // commits as they exist on the review branch
	IdentitiesInjected int
	Pushed             bool
}

// UseCase orchestrates the rewrite engine, cherry-pick orchestrator and
// tracking store against one repository.
type UseCase struct {
	repo   *git.Repo
	store  *tracking.Store
	cfg    *config.RepoConfig
	splog  *output.Splog
	engine *rewrite.Engine
	picks  *cherrypick.Orchestrator
}

// New wires a UseCase from its collaborators
func New(repo *git.Repo, store *tracking.Store, cfg *config.RepoConfig, splog *output.Splog) *UseCase {
	return &UseCase{
		repo:   repo,
		store:  store,
		cfg:    cfg,
		splog:  splog,
		engine: rewrite.NewEngine(repo),
		picks:  cherrypick.NewOrchestrator(repo),
	}
}

var rangePattern = regexp.MustCompile(`^(\d+)(?:-(\d+))?$`)

// ParseRange parses a selection like "3" or "1-2" into 1-based start and end
// positions.
func ParseRange(s string) (int, int, error) {
	match := rangePattern.FindStringSubmatch(s)
	if match == nil {
		return 0, 0, &gluerrors.RangeInvalidError{Reason: fmt.Sprintf("%q is not of the form N or N-M", s)}
	}
	start, _ := strconv.Atoi(match[1])
	end := start
	if match[2] != "" {
		end, _ = strconv.Atoi(match[2])
	}
	if start < 1 || end < start {
		return 0, 0, &gluerrors.RangeInvalidError{Start: start, End: end, Reason: "start must be >= 1 and end >= start"}
	}
	return start, end, nil
}

// Run executes the full review-branch state machine
func (u *UseCase) Run(ctx context.Context, opts Options) (*Result, error) {
	emit := opts.Progress
	if emit == nil {
		emit = func(Step) {}
	}

	emit(StepValidatingWorkingTree)
	clean, err := u.repo.IsWorkingTreeClean(ctx)
	if err != nil {
		emit(StepFailed)
		return nil, err
	}
	if !clean {
		emit(StepFailed)
		return nil, gluerrors.ErrWorkingTreeDirty
	}

	originalBranch, err := u.repo.CurrentBranch()
	if err != nil {
		emit(StepFailed)
		return nil, err
	}

	u.sweepOrphanedStaging(ctx)

	emit(StepValidatingRange)
	upstream, err := u.repo.Upstream(ctx)
	if err != nil {
		emit(StepFailed)
		return nil, err
	}
	stack, err := u.repo.UnpushedCommits(ctx)
	if err != nil {
		emit(StepFailed)
		return nil, err
	}
	if opts.Start < 1 || opts.End > len(stack) || opts.Start > opts.End {
		emit(StepFailed)
		return nil, &gluerrors.RangeInvalidError{Start: opts.Start, End: opts.End, StackSize: len(stack)}
	}
	selected := stack[opts.Start-1 : opts.End]

	emit(StepInjectingIdentities)
	injected, err := u.engine.InjectIdentities(ctx, originalBranch, selected)
	if err != nil {
		emit(StepFailed)
		return nil, err
	}
	if injected.Modified > 0 {
		// Hashes at and after the first rewritten commit changed, so every
		// previously-resolved commit object is stale. Re-resolve from the
		// branch before staging.
		stack, err = u.repo.UnpushedCommits(ctx)
		if err != nil {
			emit(StepFailed)
			return nil, err
		}
		if opts.End > len(stack) {
			emit(StepFailed)
			return nil, &gluerrors.RangeInvalidError{
				Start: opts.Start, End: opts.End, StackSize: len(stack),
				Reason: "stack shrank during identity injection",
			}
		}
		selected = stack[opts.Start-1 : opts.End]
	}

	branchName := opts.BranchName
	if branchName == "" {
		branchName = u.generateBranchName(selected, opts)
	}

	staging := fmt.Sprintf("%sreview-%d", rewrite.StagingPrefix, time.Now().UnixNano())

	emit(StepStagingCommits)
	if err := u.repo.CreateAndCheckoutBranchAt(ctx, staging, upstream); err != nil {
		emit(StepFailed)
		return nil, u.rollback(ctx, originalBranch, staging, err)
	}
	if err := u.picks.Apply(ctx, selected, staging); err != nil {
		emit(StepFailed)
		return nil, u.rollback(ctx, originalBranch, staging, err)
	}

	emit(StepNamingBranch)
	exists, err := u.repo.BranchExists(branchName)
	if err != nil {
		emit(StepFailed)
		return nil, u.rollback(ctx, originalBranch, staging, err)
	}
	if exists {
		if !opts.Force {
			emit(StepFailed)
			return nil, u.rollback(ctx, originalBranch, staging,
				fmt.Errorf("%w: %s", gluerrors.ErrBranchAlreadyExists, branchName))
		}
		if err := u.repo.DeleteBranch(ctx, branchName); err != nil {
			emit(StepFailed)
			return nil, u.rollback(ctx, originalBranch, staging, err)
		}
	}
	stagingHead, err := u.repo.HeadHash(ctx)
	if err != nil {
		emit(StepFailed)
		return nil, u.rollback(ctx, originalBranch, staging, err)
	}
	if err := u.repo.CreateBranchAt(ctx, branchName, stagingHead); err != nil {
		emit(StepFailed)
		return nil, u.rollback(ctx, originalBranch, staging, err)
	}

	emit(StepRecordingTracking)
	published, err := u.repo.CommitsBetween(ctx, upstream, branchName)
	if err != nil {
		emit(StepFailed)
		return nil, u.rollbackWithBranch(ctx, originalBranch, staging, branchName, err)
	}
	graph := u.store.Load()
	for _, commit := range published {
		id, ok := identity.ExtractIdentity(commit.Body)
		if !ok {
			// Every staged commit was tagged during injection; a miss here
			// means the rewrite engine broke its contract.
			emit(StepFailed)
			return nil, u.rollbackWithBranch(ctx, originalBranch, staging, branchName,
				fmt.Errorf("commit %s lost its identity during staging", commit.Hash))
		}
		u.store.RecordLocation(graph, id, branchName, commit.Hash)
	}
	if err := u.store.Save(graph); err != nil {
		emit(StepFailed)
		return nil, u.rollbackWithBranch(ctx, originalBranch, staging, branchName, err)
	}

	pushed := false
	if opts.Push {
		emit(StepPushing)
		remote := opts.Remote
		if remote == "" {
			remote = u.cfg.GetRemote()
		}
		if err := u.repo.Push(ctx, branchName, remote); err != nil {
			emit(StepFailed)
			return nil, u.rollbackWithBranch(ctx, originalBranch, staging, branchName, err)
		}
		u.store.MarkBranchPushed(graph, branchName, remote, time.Time{})
		if err := u.store.Save(graph); err != nil {
			emit(StepFailed)
			return nil, u.rollbackWithBranch(ctx, originalBranch, staging, branchName, err)
		}
		pushed = true
	}

	emit(StepCleaningUp)
	if err := u.repo.CheckoutBranch(ctx, originalBranch); err != nil {
		emit(StepFailed)
		return nil, err
	}
	if err := u.repo.DeleteBranch(ctx, staging); err != nil {
		emit(StepFailed)
		return nil, err
	}

	emit(StepDone)
	return &Result{
		BranchName:         branchName,
		Commits:            published,
		IdentitiesInjected: injected.Modified,
		Pushed:             pushed,
	}, nil
}

func (u *UseCase) generateBranchName(selected []git.IndexedCommit, opts Options) string {
	nameOpts := branchname.Options{
		Prefix:        u.cfg.GetBranchPrefix(),
		Separator:     u.cfg.GetBranchSeparator(),
		MaxLength:     u.cfg.GetMaxBranchLength(),
		StripPrefixes: u.cfg.StripPrefixes,
	}
	name := branchname.FromSubject(selected[0].Subject, nameOpts)
	if name == nameOpts.Prefix+"/" || name == nameOpts.Prefix {
		name = branchname.ForRange(opts.Start, opts.End, nameOpts)
	}
	return name
}

// rollback returns the repository to its pre-run state after a failure at or
// beyond the staging step: abort any in-flight cherry-pick, leave the staging
// branch, return to the original branch, delete the staging branch. Rollback
// failures are logged and swallowed so the root cause always propagates.
func (u *UseCase) rollback(ctx context.Context, originalBranch, staging string, cause error) error {
	if err := u.picks.Abort(ctx); err != nil {
		u.splog.Debug("rollback: abort cherry-pick: %v", err)
	}
	if current, err := u.repo.CurrentBranch(); err != nil || current != originalBranch {
		if err := u.repo.CheckoutBranch(ctx, originalBranch); err != nil {
			u.splog.Debug("rollback: checkout %s: %v", originalBranch, err)
		}
	}
	if exists, _ := u.repo.BranchExists(staging); exists {
		if err := u.repo.DeleteBranch(ctx, staging); err != nil {
			u.splog.Debug("rollback: delete %s: %v", staging, err)
		}
	}
	return cause
}

// rollbackWithBranch additionally removes the already-materialized review
// branch, and any tracking locations recorded for it, so a failed run leaves
// nothing behind.
func (u *UseCase) rollbackWithBranch(ctx context.Context, originalBranch, staging, reviewBranch string, cause error) error {
	err := u.rollback(ctx, originalBranch, staging, cause)
	if exists, _ := u.repo.BranchExists(reviewBranch); exists {
		if delErr := u.repo.DeleteBranch(ctx, reviewBranch); delErr != nil {
			u.splog.Debug("rollback: delete %s: %v", reviewBranch, delErr)
		}
	}
	u.discardTracking(reviewBranch)
	return err
}

// discardTracking drops locations recorded for a review branch that was rolled
// back. The branch is gone by now, so pruning against the live branch list
// removes exactly its locations. Failures are logged and swallowed like the
// rest of the rollback path.
func (u *UseCase) discardTracking(reviewBranch string) {
	branches, err := u.repo.BranchNames()
	if err != nil {
		u.splog.Debug("rollback: list branches: %v", err)
		return
	}
	graph := u.store.Load()
	if removed := u.store.PruneDeletedBranches(graph, branches); removed > 0 {
		if err := u.store.Save(graph); err != nil {
			u.splog.Debug("rollback: prune tracking for %s: %v", reviewBranch, err)
		}
	}
}

// sweepOrphanedStaging removes staging branches left behind by a process
// killed mid-operation.
func (u *UseCase) sweepOrphanedStaging(ctx context.Context) {
	orphans, err := rewrite.FindOrphanedStagingBranches(u.repo)
	if err != nil {
		return
	}
	for _, orphan := range orphans {
		u.splog.Warn("removing orphaned staging branch %s", orphan)
		if err := u.repo.DeleteBranch(ctx, orphan); err != nil {
			u.splog.Debug("failed to delete orphaned branch %s: %v", orphan, err)
		}
	}
}
