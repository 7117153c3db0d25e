// Package tracking persists the map from persistent commit identity to every
// branch/hash location currently holding a copy of that commit.
package tracking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// GraphVersion is written into every saved graph. It is a forward-compat
// hook; nothing dispatches on it yet.
const GraphVersion = "1.0"

// Status of a location
const (
	StatusUnpushed = "unpushed"
	StatusPushed   = "pushed"
)

// Location is a snapshot of where an identity lives: never mutated on
// rewrite, a new Location is appended when the identity reappears at a new
// hash on the same branch.
type Location struct {
	Branch     string     `json:"branch"`
	CommitHash string     `json:"commitHash"`
	Status     string     `json:"status"`
	Remote     string     `json:"remote,omitempty"`
	PushedAt   *time.Time `json:"pushedAt,omitempty"`
}

// Entry holds everything known about one identity
type Entry struct {
	FirstSeen time.Time  `json:"firstSeen"`
	Locations []Location `json:"locations"`
}

// Graph is the whole persisted document
type Graph struct {
	Version string            `json:"version"`
	Commits map[string]*Entry `json:"commits"`
}

// NewGraph returns an empty graph
func NewGraph() *Graph {
	return &Graph{
		Version: GraphVersion,
		Commits: make(map[string]*Entry),
	}
}

// Store reads and writes the tracking graph as a single JSON document under
// the repository's git metadata directory. The whole document is rewritten on
// every save; there is no locking, so concurrent writers race with
// last-writer-wins.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store rooted at the given git dir
// (the graph lives at <gitDir>/glu/tracking.json).
func NewStore(gitDir string) *Store {
	return &Store{
		path: filepath.Join(gitDir, "glu", "tracking.json"),
		now:  time.Now,
	}
}

// Path returns the location of the persisted graph
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted graph. A missing file yields an empty graph. A
// corrupt file is moved aside to a timestamped backup and replaced by an
// empty graph; corruption never surfaces to the caller.
func (s *Store) Load() *Graph {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return NewGraph()
	}

	graph, ok := parseGraph(data)
	if !ok {
		s.backupCorrupt()
		return NewGraph()
	}
	return graph
}

// parseGraph validates the document shape before trusting it, returning
// (nil, false) for anything malformed rather than raising.
func parseGraph(data []byte) (*Graph, bool) {
	var graph Graph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, false
	}
	if graph.Version == "" || graph.Commits == nil {
		return nil, false
	}
	for id, entry := range graph.Commits {
		if id == "" || entry == nil {
			return nil, false
		}
		for _, loc := range entry.Locations {
			if loc.Branch == "" || loc.CommitHash == "" {
				return nil, false
			}
			if loc.Status != StatusUnpushed && loc.Status != StatusPushed {
				return nil, false
			}
		}
	}
	return &graph, true
}

func (s *Store) backupCorrupt() {
	backup := fmt.Sprintf("%s.corrupt.%d", s.path, s.now().Unix())
	// Best effort; if the rename fails the next save overwrites anyway
	_ = os.Rename(s.path, backup)
}

// Save writes the full graph, creating the containing directory if absent
func (s *Store) Save(graph *Graph) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create tracking directory: %w", err)
	}

	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracking graph: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tracking graph: %w", err)
	}
	return nil
}

// RecordLocation appends a new unpushed Location for the identity unless an
// identical (branch, hash) pair is already known. Deduplication is by exact
// (branch, hash): a branch can legitimately hold different hashes for the
// same identity over time, and both are retained.
func (s *Store) RecordLocation(graph *Graph, id, branch, commitHash string) {
	entry, ok := graph.Commits[id]
	if !ok {
		entry = &Entry{FirstSeen: s.now().UTC()}
		graph.Commits[id] = entry
	}

	for _, loc := range entry.Locations {
		if loc.Branch == branch && loc.CommitHash == commitHash {
			return
		}
	}

	entry.Locations = append(entry.Locations, Location{
		Branch:     branch,
		CommitHash: commitHash,
		Status:     StatusUnpushed,
	})
}

// MarkBranchPushed flips every Location on the branch to pushed, across all
// identities, recording the remote and push time. Other branches are untouched.
func (s *Store) MarkBranchPushed(graph *Graph, branch, remote string, when time.Time) {
	if when.IsZero() {
		when = s.now().UTC()
	}
	for _, entry := range graph.Commits {
		for i := range entry.Locations {
			if entry.Locations[i].Branch == branch {
				entry.Locations[i].Status = StatusPushed
				entry.Locations[i].Remote = remote
				pushedAt := when
				entry.Locations[i].PushedAt = &pushedAt
			}
		}
	}
}

// PruneDeletedBranches removes every Location whose branch is absent from
// existingBranches and deletes identities left with zero Locations. The
// caller supplies the authoritative branch list; the store does not enumerate
// branches itself. Returns the number of removed Locations.
func (s *Store) PruneDeletedBranches(graph *Graph, existingBranches []string) int {
	existing := make(map[string]bool, len(existingBranches))
	for _, b := range existingBranches {
		existing[b] = true
	}

	removed := 0
	for id, entry := range graph.Commits {
		kept := entry.Locations[:0]
		for _, loc := range entry.Locations {
			if existing[loc.Branch] {
				kept = append(kept, loc)
			} else {
				removed++
			}
		}
		entry.Locations = kept
		if len(entry.Locations) == 0 {
			delete(graph.Commits, id)
		}
	}
	return removed
}

// ExportGraph returns the graph as-is for backup purposes
func (s *Store) ExportGraph(graph *Graph) *Graph {
	return graph
}

// ImportGraph accepts a previously exported graph for restore purposes
func (s *Store) ImportGraph(graph *Graph) *Graph {
	return graph
}
