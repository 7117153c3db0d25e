package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// Commit is an immutable snapshot of a commit as read from the repository.
// A rewrite produces a new Commit with a new hash; the Glu-ID trailer in the
// body is what carries the logical identity across.
type Commit struct {
	Hash    string
	Subject string
	Body    string
}

// ReadCommit reads a commit by SHA
func (r *Repo) ReadCommit(sha string) (Commit, error) {
	obj, err := r.gogit.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return Commit{}, fmt.Errorf("failed to read commit %s: %w", sha, err)
	}

	message := strings.TrimRight(obj.Message, "\n")
	subject := message
	if idx := strings.Index(message, "\n"); idx >= 0 {
		subject = message[:idx]
	}

	return Commit{
		Hash:    obj.Hash.String(),
		Subject: strings.TrimSpace(subject),
		Body:    message,
	}, nil
}

// HeadHash returns the SHA of HEAD
func (r *Repo) HeadHash(ctx context.Context) (string, error) {
	return r.runner.Run(ctx, "rev-parse", "HEAD")
}

// ParentHash returns the SHA of a commit's first parent.
// Root commits have no parent and yield an error.
func (r *Repo) ParentHash(ctx context.Context, sha string) (string, error) {
	out, err := r.runner.Run(ctx, "rev-parse", "--verify", sha+"^")
	if err != nil {
		return "", fmt.Errorf("commit %s has no parent: %w", sha, err)
	}
	return out, nil
}

// AmendMessage rewrites the message of the commit at HEAD, keeping its content.
// The message is fed on stdin so multi-line bodies and trailers survive intact.
func (r *Repo) AmendMessage(ctx context.Context, message string) error {
	_, err := r.runner.RunWithInput(ctx, message, "commit", "--amend", "-F", "-")
	if err != nil {
		return fmt.Errorf("failed to amend commit message: %w", err)
	}
	return nil
}
