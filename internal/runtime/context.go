// Package runtime wires the collaborators for one invocation: the repository
// gateway, tracking store, configuration and logger. Everything is
// constructed explicitly here and injected downward; there are no
// process-wide singletons.
package runtime

import (
	"glu.dev/glu/internal/config"
	"glu.dev/glu/internal/git"
	"glu.dev/glu/internal/output"
	"glu.dev/glu/internal/tracking"
)

// Context provides access to the core collaborators for commands
type Context struct {
	Repo   *git.Repo
	Store  *tracking.Store
	Config *config.RepoConfig
	Splog  *output.Splog
}

// NewContext discovers the repository containing dir and wires a Context
// around it.
func NewContext(dir string) (*Context, error) {
	repo, err := git.Open(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(repo.GitDir())
	if err != nil {
		return nil, err
	}

	return &Context{
		Repo:   repo,
		Store:  tracking.NewStore(repo.GitDir()),
		Config: cfg,
		Splog:  output.NewSplog(),
	}, nil
}

// Close releases resources held by the context
func (c *Context) Close() {
	if c.Splog != nil {
		_ = c.Splog.Close()
	}
}
