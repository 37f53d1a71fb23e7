// Package graph answers structural questions about the citation graph:
// node degrees, bounded path search, and orphaned-edge cleanup. Everything
// is recomputed from the current edge set on demand; no counters are
// cached that could go stale.
package graph

import (
	"fmt"
	"time"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/storage"
)

// MaxPaths caps the number of paths FindPaths returns.
const MaxPaths = 10

// DegreeStats reports edge counts for one record, derived at ComputedAt.
type DegreeStats struct {
	ID          string `json:"id"`
	InDegree    int    `json:"in_degree"`
	OutDegree   int    `json:"out_degree"`
	TotalDegree int    `json:"total_degree"`
	ComputedAt  string `json:"computed_at"`
}

// CleanupResult summarizes an orphaned-edge removal pass.
type CleanupResult struct {
	OrphansFound   int      `json:"orphans_found"`
	EdgesRemoved   int      `json:"edges_removed"`
	RemovedEdgeIDs []string `json:"removed_edge_ids,omitempty"`
}

// Accessor provides read and maintenance operations over the citation
// graph. It holds no state beyond the store and is safe for concurrent
// use as long as the store is.
type Accessor struct {
	store storage.Store
}

// New returns an Accessor over the given store.
func New(store storage.Store) *Accessor {
	return &Accessor{store: store}
}

// Degree counts the edges incident to id, split into inbound and
// outbound.
func (a *Accessor) Degree(id string) (*DegreeStats, error) {
	edges, err := a.store.GetAllEdges()
	if err != nil {
		return nil, fmt.Errorf("computing degree of %q: %w", id, err)
	}
	return degreeFrom(id, edges), nil
}

// BatchDegrees computes degree stats for each id over a single edge
// snapshot, so all entries in one batch are mutually consistent.
func (a *Accessor) BatchDegrees(ids []string) ([]DegreeStats, error) {
	edges, err := a.store.GetAllEdges()
	if err != nil {
		return nil, fmt.Errorf("computing batch degrees: %w", err)
	}

	stats := make([]DegreeStats, 0, len(ids))
	for _, id := range ids {
		stats = append(stats, *degreeFrom(id, edges))
	}
	return stats, nil
}

func degreeFrom(id string, edges []citation.Edge) *DegreeStats {
	stats := &DegreeStats{ID: id, ComputedAt: time.Now().UTC().Format(time.RFC3339)}
	for _, e := range edges {
		if e.TargetID == id {
			stats.InDegree++
		}
		if e.SourceID == id {
			stats.OutDegree++
		}
	}
	stats.TotalDegree = stats.InDegree + stats.OutDegree
	return stats
}

// FindPaths searches for citation paths from sourceID to targetID over
// outgoing edges only, bounded by maxDepth hops and capped at MaxPaths
// results. A node is expanded at most once, so the search prefers
// shortest paths and may miss longer alternatives through already-visited
// nodes. FindPaths(x, x, d) returns the trivial zero-length path [[x]].
func (a *Accessor) FindPaths(sourceID, targetID string, maxDepth int) ([][]string, error) {
	if sourceID == targetID {
		return [][]string{{sourceID}}, nil
	}
	if maxDepth < 1 {
		return nil, nil
	}

	edges, err := a.store.GetAllEdges()
	if err != nil {
		return nil, fmt.Errorf("finding paths %q -> %q: %w", sourceID, targetID, err)
	}

	outgoing := make(map[string][]string)
	for _, e := range edges {
		outgoing[e.SourceID] = append(outgoing[e.SourceID], e.TargetID)
	}

	var paths [][]string
	visited := map[string]bool{sourceID: true}
	queue := [][]string{{sourceID}}

	for len(queue) > 0 && len(paths) < MaxPaths {
		path := queue[0]
		queue = queue[1:]
		if len(path) > maxDepth {
			continue
		}

		for _, next := range outgoing[path[len(path)-1]] {
			if next == targetID {
				found := append(append([]string{}, path...), next)
				paths = append(paths, found)
				if len(paths) == MaxPaths {
					break
				}
				continue
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, append(append([]string{}, path...), next))
		}
	}

	return paths, nil
}

// CleanupOrphans deletes every edge referencing a record id not present
// in validIDs. Run after record deletion to keep the edge set consistent.
func (a *Accessor) CleanupOrphans(validIDs []string) (*CleanupResult, error) {
	edges, err := a.store.GetAllEdges()
	if err != nil {
		return nil, fmt.Errorf("cleaning up orphaned edges: %w", err)
	}

	valid := make(map[string]bool, len(validIDs))
	for _, id := range validIDs {
		valid[id] = true
	}

	orphaned, _ := citation.DetectOrphans(edges, valid)

	result := &CleanupResult{}
	for _, o := range orphaned {
		result.OrphansFound++
		if err := a.store.DeleteEdge(o.SourceID, o.TargetID); err != nil {
			return result, fmt.Errorf("cleaning up orphaned edges: removing %s->%s: %w", o.SourceID, o.TargetID, err)
		}
		result.EdgesRemoved++
		result.RemovedEdgeIDs = append(result.RemovedEdgeIDs, o.SourceID+"->"+o.TargetID)
	}
	return result, nil
}
