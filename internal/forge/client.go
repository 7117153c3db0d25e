// Package forge provides a minimal GitHub client for opening pull requests
// for review branches.
package forge

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// PullRequestInfo contains the subset of pull request data glu reports back.
// A dedicated struct avoids coupling callers to the go-github types.
type PullRequestInfo struct {
	Number  int
	HTMLURL string
	Title   string
	Draft   bool
}

// CreatePROptions describes the pull request to open
type CreatePROptions struct {
	Title string
	Body  string
	Head  string
	Base  string
	Draft bool
}

// Client is an interface for forge interactions
type Client interface {
	// CreatePullRequest creates a new pull request
	CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error)

	// GetOwnerRepo returns the repository owner and name
	GetOwnerRepo() (owner, repo string)
}

// GitHubClient implements Client using the GitHub API
type GitHubClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubClient builds a client from the GITHUB_TOKEN (or GH_TOKEN)
// environment variable and the given remote URL.
func NewGitHubClient(ctx context.Context, remoteURL string) (*GitHubClient, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("no GitHub token found; set GITHUB_TOKEN")
	}

	owner, repo, err := parseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &GitHubClient{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// GetOwnerRepo returns the repository owner and name
func (c *GitHubClient) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// CreatePullRequest creates a new pull request
func (c *GitHubClient) CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}
	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	created, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &PullRequestInfo{
		Number:  created.GetNumber(),
		HTMLURL: created.GetHTMLURL(),
		Title:   created.GetTitle(),
		Draft:   created.GetDraft(),
	}, nil
}

var sshRemotePattern = regexp.MustCompile(`^(?:ssh://)?git@([^:/]+)[:/](.+?)(?:\.git)?$`)

// parseRemoteURL extracts owner and repo from an https or ssh remote URL
func parseRemoteURL(remoteURL string) (string, string, error) {
	var path string
	if match := sshRemotePattern.FindStringSubmatch(remoteURL); match != nil {
		path = match[2]
	} else if u, err := url.Parse(remoteURL); err == nil && u.Host != "" {
		path = strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".git")
	}

	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot determine owner/repo from remote URL %q", remoteURL)
	}
	return parts[0], parts[1], nil
}
