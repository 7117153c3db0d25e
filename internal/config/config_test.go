package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultBranchPrefix, cfg.GetBranchPrefix())
	assert.Equal(t, DefaultBranchSeparator, cfg.GetBranchSeparator())
	assert.Equal(t, DefaultMaxBranchLength, cfg.GetMaxBranchLength())
	assert.Equal(t, DefaultRemote, cfg.GetRemote())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	gitDir := t.TempDir()
	saved := &RepoConfig{
		BranchPrefix:    "review",
		BranchSeparator: "_",
		MaxBranchLength: 40,
		StripPrefixes:   []string{"wip"},
		Remote:          "upstream",
	}
	require.NoError(t, Save(gitDir, saved))

	loaded, err := Load(gitDir)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
	assert.Equal(t, "review", loaded.GetBranchPrefix())
	assert.Equal(t, "upstream", loaded.GetRemote())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	gitDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, ".glu_config"), []byte("{nope"), 0600))

	_, err := Load(gitDir)
	require.Error(t, err)
}

func TestPartialConfigFallsBackPerField(t *testing.T) {
	t.Parallel()

	gitDir := t.TempDir()
	require.NoError(t, Save(gitDir, &RepoConfig{BranchPrefix: "team"}))

	cfg, err := Load(gitDir)
	require.NoError(t, err)
	assert.Equal(t, "team", cfg.GetBranchPrefix())
	assert.Equal(t, DefaultBranchSeparator, cfg.GetBranchSeparator())
	assert.Equal(t, DefaultMaxBranchLength, cfg.GetMaxBranchLength())
}
