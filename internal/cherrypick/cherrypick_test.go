package cherrypick

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gluerrors "glu.dev/glu/internal/errors"
	"glu.dev/glu/internal/git"
	"glu.dev/glu/testhelpers"
)

func TestIsContiguous(t *testing.T) {
	t.Parallel()

	indexed := func(positions ...int) []git.IndexedCommit {
		commits := make([]git.IndexedCommit, len(positions))
		for i, p := range positions {
			commits[i] = git.IndexedCommit{Position: p}
		}
		return commits
	}

	tests := []struct {
		name     string
		commits  []git.IndexedCommit
		expected bool
	}{
		{name: "empty", commits: indexed(), expected: true},
		{name: "single", commits: indexed(3), expected: true},
		{name: "unbroken run", commits: indexed(1, 2, 3), expected: true},
		{name: "run not starting at one", commits: indexed(4, 5, 6), expected: true},
		{name: "gap", commits: indexed(1, 3), expected: false},
		{name: "descending", commits: indexed(2, 1), expected: false},
		{name: "duplicate position", commits: indexed(2, 2), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsContiguous(tt.commits))
		})
	}
}

func TestApplyCleanPicks(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)
	fixture.Git(t, "branch", "target", "origin/main")
	fixture.StackCommits(t, "one", "two")

	repo, err := git.Open(fixture.Dir)
	require.NoError(t, err)

	commits, err := repo.UnpushedCommits(context.Background())
	require.NoError(t, err)
	require.Len(t, commits, 2)

	orch := NewOrchestrator(repo)
	require.NoError(t, orch.Apply(context.Background(), commits, "target"))

	assert.Equal(t, "target", fixture.CurrentBranch(t))
	assert.Equal(t, "two", fixture.Git(t, "log", "-1", "--format=%s"))
	assert.Equal(t, "3", fixture.Git(t, "rev-list", "--count", "target"))
}

func TestApplyConflictAbortsCleanly(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	// Target already changed the file the stack commit also touches
	fixture.Git(t, "checkout", "-b", "target", "origin/main")
	fixture.CommitFile(t, "conflict.txt", "target content\n", "target version")
	targetHead := fixture.HeadHash(t)

	fixture.Git(t, "checkout", "main")
	fixture.CommitFile(t, "conflict.txt", "stack content\n", "stack version")

	repo, err := git.Open(fixture.Dir)
	require.NoError(t, err)

	commits, err := repo.UnpushedCommits(context.Background())
	require.NoError(t, err)
	require.Len(t, commits, 1)

	orch := NewOrchestrator(repo)
	err = orch.Apply(context.Background(), commits, "target")

	var conflictErr *gluerrors.CherryPickConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.ErrorIs(t, err, gluerrors.ErrCherryPickConflict)
	assert.Equal(t, 1, conflictErr.Position)
	assert.Equal(t, 1, conflictErr.Total)
	assert.Zero(t, conflictErr.Applied)
	assert.Equal(t, []string{"conflict.txt"}, conflictErr.ConflictingFiles)

	// Working tree and branch are exactly back at the pre-attempt state
	assert.Equal(t, "target", fixture.CurrentBranch(t))
	assert.Equal(t, targetHead, fixture.HeadHash(t))
	assert.Empty(t, fixture.Git(t, "status", "--porcelain"))
}

func TestApplyReportsPartialProgress(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	fixture.Git(t, "checkout", "-b", "target", "origin/main")
	fixture.CommitFile(t, "clash.txt", "target content\n", "target version")

	fixture.Git(t, "checkout", "main")
	fixture.CommitFile(t, "fine.txt", "no conflict\n", "clean commit")
	fixture.CommitFile(t, "clash.txt", "stack content\n", "conflicting commit")

	repo, err := git.Open(fixture.Dir)
	require.NoError(t, err)

	commits, err := repo.UnpushedCommits(context.Background())
	require.NoError(t, err)
	require.Len(t, commits, 2)

	orch := NewOrchestrator(repo)
	err = orch.Apply(context.Background(), commits, "target")

	var conflictErr *gluerrors.CherryPickConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, 2, conflictErr.Position)
	assert.Equal(t, 2, conflictErr.Total)
	assert.Equal(t, 1, conflictErr.Applied)
}

func TestAbortIsIdempotent(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	repo, err := git.Open(fixture.Dir)
	require.NoError(t, err)

	orch := NewOrchestrator(repo)

	// No cherry-pick in progress: both calls succeed silently
	require.NoError(t, orch.Abort(context.Background()))
	require.NoError(t, orch.Abort(context.Background()))
}

func TestEnsureOnBranchIsNoopWhenAlreadyThere(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	repo, err := git.Open(fixture.Dir)
	require.NoError(t, err)

	orch := NewOrchestrator(repo)
	require.NoError(t, orch.EnsureOnBranch(context.Background(), "main"))
	assert.Equal(t, "main", fixture.CurrentBranch(t))
}
