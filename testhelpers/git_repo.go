// Package testhelpers builds throwaway git repositories for tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo represents a Git repository for testing purposes. Most tests want
// NewStackRepo, which wires a local "remote" so upstream-relative operations
// work without a network.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(t *testing.T, dir string) *GitRepo {
	t.Helper()

	repo := &GitRepo{Dir: dir}

	// Initialize with a neutral config so the developer's global config
	// cannot influence test behavior
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	repo.Git(t, "config", "user.name", "Test User")
	repo.Git(t, "config", "user.email", "test@example.com")
	repo.Git(t, "config", "commit.gpgsign", "false")

	return repo
}

// NewStackRepo builds a repository with a bare local remote, an initial
// commit pushed to origin/main, and main tracking it. Commits added
// afterwards form the unpushed stack.
func NewStackRepo(t *testing.T) *GitRepo {
	t.Helper()

	base := t.TempDir()
	remoteDir := filepath.Join(base, "remote.git")
	workDir := filepath.Join(base, "work")

	cmd := exec.Command("git", "init", "--bare", remoteDir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to init bare remote: %v", err)
	}

	repo := NewGitRepo(t, workDir)
	repo.Git(t, "remote", "add", "origin", remoteDir)
	repo.CommitFile(t, "base.txt", "base\n", "initial commit")
	repo.Git(t, "push", "-u", "origin", "main")

	return repo
}

// Git runs a git command in the repository and fails the test on error.
func (r *GitRepo) Git(t *testing.T, args ...string) string {
	t.Helper()

	out, err := r.gitOutput(args...)
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return out
}

// GitErr runs a git command and returns the error instead of failing.
func (r *GitRepo) GitErr(args ...string) (string, error) {
	return r.gitOutput(args...)
}

func (r *GitRepo) gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// CommitFile writes a file and commits it with the given message.
func (r *GitRepo) CommitFile(t *testing.T, name, content, message string) string {
	t.Helper()

	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	r.Git(t, "add", name)
	r.Git(t, "commit", "-m", message)
	return r.HeadHash(t)
}

// StackCommits creates one commit per message, each touching its own file,
// forming an unpushed stack oldest first.
func (r *GitRepo) StackCommits(t *testing.T, messages ...string) []string {
	t.Helper()

	hashes := make([]string, 0, len(messages))
	for i, message := range messages {
		name := fmt.Sprintf("stack_%d.txt", i+1)
		hashes = append(hashes, r.CommitFile(t, name, message+"\n", message))
	}
	return hashes
}

// HeadHash returns the SHA of HEAD.
func (r *GitRepo) HeadHash(t *testing.T) string {
	t.Helper()
	return r.Git(t, "rev-parse", "HEAD")
}

// CurrentBranch returns the checked-out branch name.
func (r *GitRepo) CurrentBranch(t *testing.T) string {
	t.Helper()
	return r.Git(t, "rev-parse", "--abbrev-ref", "HEAD")
}

// CommitMessage returns the full message of a commit.
func (r *GitRepo) CommitMessage(t *testing.T, rev string) string {
	t.Helper()
	return r.Git(t, "log", "-1", "--format=%B", rev)
}

// BranchExists reports whether a local branch exists.
func (r *GitRepo) BranchExists(t *testing.T, name string) bool {
	t.Helper()
	_, err := r.GitErr("rev-parse", "--verify", "refs/heads/"+name)
	return err == nil
}

// GitDir returns the repository's git metadata directory.
func (r *GitRepo) GitDir(t *testing.T) string {
	t.Helper()
	return r.Git(t, "rev-parse", "--absolute-git-dir")
}
