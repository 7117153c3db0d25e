// Package list composes the tracking graph with live branch state into a
// read-only view of every tracked commit. It mutates nothing; rendering
// belongs to the CLI layer.
package list

import (
	"sort"

	"glu.dev/glu/internal/git"
	"glu.dev/glu/internal/tracking"
)

// TrackedCommit is one identity with its known locations
type TrackedCommit struct {
	ID        string
	Subject   string // subject of the first resolvable location, if any
	Locations []tracking.Location
	Stale     []tracking.Location // locations whose branch no longer exists
}

// UseCase reads the tracking graph alongside branch state
type UseCase struct {
	repo  *git.Repo
	store *tracking.Store
}

// New wires a list use case
func New(repo *git.Repo, store *tracking.Store) *UseCase {
	return &UseCase{repo: repo, store: store}
}

// Tracked returns every tracked commit, identities sorted lexicographically.
// Identities embed a creation timestamp, so this is also creation order.
func (u *UseCase) Tracked() ([]TrackedCommit, error) {
	graph := u.store.Load()

	branches, err := u.repo.BranchNames()
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(branches))
	for _, b := range branches {
		existing[b] = true
	}

	ids := make([]string, 0, len(graph.Commits))
	for id := range graph.Commits {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]TrackedCommit, 0, len(ids))
	for _, id := range ids {
		entry := graph.Commits[id]
		tc := TrackedCommit{ID: id}
		for _, loc := range entry.Locations {
			if !existing[loc.Branch] {
				tc.Stale = append(tc.Stale, loc)
				continue
			}
			tc.Locations = append(tc.Locations, loc)
			if tc.Subject == "" {
				if commit, err := u.repo.ReadCommit(loc.CommitHash); err == nil {
					tc.Subject = commit.Subject
				}
			}
		}
		result = append(result, tc)
	}
	return result, nil
}

// Prune removes locations for deleted branches from the graph, feeding the
// store the authoritative branch list, and persists the result. Returns the
// number of removed locations.
func (u *UseCase) Prune() (int, error) {
	branches, err := u.repo.BranchNames()
	if err != nil {
		return 0, err
	}

	graph := u.store.Load()
	removed := u.store.PruneDeletedBranches(graph, branches)
	if removed == 0 {
		return 0, nil
	}
	if err := u.store.Save(graph); err != nil {
		return removed, err
	}
	return removed, nil
}
