package git

import (
	"context"
	"fmt"
)

// RemoteURL returns the fetch URL configured for a remote
func (r *Repo) RemoteURL(ctx context.Context, remote string) (string, error) {
	url, err := r.runner.Run(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get URL for remote %s: %w", remote, err)
	}
	return url, nil
}
