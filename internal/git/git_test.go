package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gluerrors "glu.dev/glu/internal/errors"
	"glu.dev/glu/testhelpers"
)

func TestOpenFindsRepoFromSubdirectory(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)
	sub := filepath.Join(fixture.Dir, "pkg", "deep")
	require.NoError(t, os.MkdirAll(sub, 0750))

	repo, err := Open(sub)
	require.NoError(t, err)
	assert.Equal(t, fixture.GitDir(t), repo.GitDir())
}

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestCurrentBranchDetachedHead(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)
	fixture.Git(t, "checkout", "--detach", "HEAD")

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	_, err = repo.CurrentBranch()
	require.ErrorIs(t, err, gluerrors.ErrDetachedHead)
}

func TestCheckoutMissingBranch(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	err = repo.CheckoutBranch(context.Background(), "no-such-branch")
	require.ErrorIs(t, err, gluerrors.ErrBranchNotFound)

	var notFound *gluerrors.BranchNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-branch", notFound.BranchName)
	assert.Equal(t, "main", fixture.CurrentBranch(t))
}

func TestUpstreamNotConfigured(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewGitRepo(t, t.TempDir())
	fixture.CommitFile(t, "a.txt", "a\n", "initial commit")

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	_, err = repo.Upstream(context.Background())
	require.ErrorIs(t, err, gluerrors.ErrUpstreamNotFound)
}

func TestUnpushedCommitsPositionsAreContiguousOldestFirst(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)
	hashes := fixture.StackCommits(t, "one", "two", "three")

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	commits, err := repo.UnpushedCommits(context.Background())
	require.NoError(t, err)
	require.Len(t, commits, 3)

	for i, commit := range commits {
		assert.Equal(t, i+1, commit.Position)
		assert.Equal(t, hashes[i], commit.Hash)
	}
	assert.Equal(t, "one", commits[0].Subject)
	assert.Equal(t, "three", commits[2].Subject)
}

func TestUnpushedCommitsEmptyWhenInSync(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	commits, err := repo.UnpushedCommits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestIsWorkingTreeClean(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	clean, err := repo.IsWorkingTreeClean(context.Background())
	require.NoError(t, err)
	assert.True(t, clean)

	require.NoError(t, os.WriteFile(filepath.Join(fixture.Dir, "untracked.txt"), []byte("x\n"), 0600))

	clean, err = repo.IsWorkingTreeClean(context.Background())
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestAmendMessagePreservesTree(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)
	fixture.CommitFile(t, "a.txt", "a\n", "original subject")
	before := fixture.Git(t, "rev-parse", "HEAD^{tree}")

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	require.NoError(t, repo.AmendMessage(context.Background(), "new subject\n\nwith a body"))

	assert.Equal(t, "new subject", fixture.Git(t, "log", "-1", "--format=%s"))
	assert.Equal(t, before, fixture.Git(t, "rev-parse", "HEAD^{tree}"))
}

func TestReadCommitSplitsSubjectAndBody(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)
	hash := fixture.CommitFile(t, "a.txt", "a\n", "the subject\n\nbody line one\nbody line two")

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	commit, err := repo.ReadCommit(hash)
	require.NoError(t, err)
	assert.Equal(t, hash, commit.Hash)
	assert.Equal(t, "the subject", commit.Subject)
	assert.Contains(t, commit.Body, "body line one")
}

func TestUpdateBranchRefMovesBranchWithoutCheckout(t *testing.T) {
	t.Parallel()

	fixture := testhelpers.NewStackRepo(t)
	fixture.Git(t, "branch", "other", "origin/main")
	fixture.StackCommits(t, "one")
	head := fixture.HeadHash(t)

	repo, err := Open(fixture.Dir)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBranchRef(context.Background(), "other", head))
	assert.Equal(t, head, fixture.Git(t, "rev-parse", "other"))
	assert.Equal(t, "main", fixture.CurrentBranch(t))
}
