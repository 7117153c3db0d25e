package git

import (
	"context"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// Repo is the gateway to a single git repository. Mutating operations go
// through the git subprocess via CommandRunner; read-only lookups use go-git
// where it is cheaper than shelling out.
type Repo struct {
	root   string
	gitDir string
	runner *CommandRunner
	gogit  *gogit.Repository
}

// Open discovers the repository containing dir and returns a gateway for it.
func Open(dir string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	runner := NewCommandRunner(root)
	gitDir, err := runner.Run(context.Background(), "rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to locate git dir: %w", err)
	}

	return &Repo{
		root:   root,
		gitDir: filepath.Clean(gitDir),
		runner: runner,
		gogit:  repo,
	}, nil
}

// Root returns the worktree root directory.
func (r *Repo) Root() string {
	return r.root
}

// GitDir returns the absolute path of the repository's git metadata directory.
func (r *Repo) GitDir() string {
	return r.gitDir
}
