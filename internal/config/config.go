// Package config provides repository configuration management,
// including reading and writing the glu configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RepoConfig represents the repository configuration, stored as JSON at
// <gitDir>/.glu_config. All fields are optional; zero values fall back to
// defaults.
type RepoConfig struct {
	BranchPrefix    string   `json:"branchPrefix,omitempty"`
	BranchSeparator string   `json:"branchSeparator,omitempty"`
	MaxBranchLength int      `json:"maxBranchLength,omitempty"`
	StripPrefixes   []string `json:"stripPrefixes,omitempty"`
	Remote          string   `json:"remote,omitempty"`
}

// Default values applied when the config file is absent or silent
const (
	DefaultBranchPrefix    = "glu"
	DefaultBranchSeparator = "-"
	DefaultMaxBranchLength = 80
	DefaultRemote          = "origin"
)

func configPath(gitDir string) string {
	return filepath.Join(gitDir, ".glu_config")
}

// Load reads the repository configuration. A missing file yields defaults.
func Load(gitDir string) (*RepoConfig, error) {
	data, err := os.ReadFile(configPath(gitDir))
	if err != nil {
		return &RepoConfig{}, nil
	}

	var cfg RepoConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}
	return &cfg, nil
}

// Save writes the repository configuration
func Save(gitDir string, cfg *RepoConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath(gitDir), data, 0600)
}

// GetBranchPrefix returns the configured branch prefix or the default
func (c *RepoConfig) GetBranchPrefix() string {
	if c.BranchPrefix != "" {
		return c.BranchPrefix
	}
	return DefaultBranchPrefix
}

// GetBranchSeparator returns the configured separator or the default
func (c *RepoConfig) GetBranchSeparator() string {
	if c.BranchSeparator != "" {
		return c.BranchSeparator
	}
	return DefaultBranchSeparator
}

// GetMaxBranchLength returns the configured maximum branch name length or the default
func (c *RepoConfig) GetMaxBranchLength() int {
	if c.MaxBranchLength > 0 {
		return c.MaxBranchLength
	}
	return DefaultMaxBranchLength
}

// GetRemote returns the configured remote or the default
func (c *RepoConfig) GetRemote() string {
	if c.Remote != "" {
		return c.Remote
	}
	return DefaultRemote
}
