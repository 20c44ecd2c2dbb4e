package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	dgraph "github.com/dominikbraun/graph"

	"deadscope/internal/graph"
)

// maxClusterNoteNames caps how many symbol names one note spells out.
const maxClusterNoteNames = 10

// DeadClusterNotes expands the finding set one call-graph neighborhood
// outward. A symbol with callers is still effectively dead when every caller
// is itself dead, including mutually recursive groups that keep each other
// "alive". The zero-caller scan cannot see these, so they are reported as
// advisory notes rather than findings.
//
// The neighborhood is bounded: only direct callees of findings are assessed,
// and a callee whose caller set includes any symbol outside the fetched
// neighborhood is conservatively treated as live.
func DeadClusterNotes(ctx context.Context, q *graph.Querier, deadIDs []string) ([]string, error) {
	if len(deadIDs) == 0 {
		return nil, nil
	}

	dead := make(map[string]bool, len(deadIDs))
	for _, id := range deadIDs {
		dead[id] = true
	}

	// Callees of dead findings are the only symbols whose liveness is in
	// question.
	outEdges, err := q.FindCallEdgesFrom(ctx, deadIDs)
	if err != nil {
		return nil, fmt.Errorf("expand dead callees: %w", err)
	}
	frontier := map[string]bool{}
	for _, e := range outEdges {
		if !dead[e.TargetID] {
			frontier[e.TargetID] = true
		}
	}
	if len(frontier) == 0 {
		return nil, nil
	}
	frontierIDs := setKeys(frontier)

	// All callers of the frontier decide its liveness; edges among the
	// frontier itself surface mutually recursive groups.
	inEdges, err := q.FindCallEdgesTo(ctx, frontierIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch frontier callers: %w", err)
	}
	frontierOut, err := q.FindCallEdgesFrom(ctx, frontierIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch frontier callees: %w", err)
	}

	g := dgraph.New(dgraph.StringHash, dgraph.Directed())
	addEdge := func(e graph.CallEdge) {
		for _, id := range []string{e.SourceID, e.TargetID} {
			if err := g.AddVertex(id); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
				return
			}
		}
		if err := g.AddEdge(e.SourceID, e.TargetID); err != nil && !errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
			return
		}
	}
	for _, id := range deadIDs {
		if err := g.AddVertex(id); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("build cluster graph: %w", err)
		}
	}
	for _, e := range outEdges {
		addEdge(e)
	}
	for _, e := range inEdges {
		addEdge(e)
	}
	for _, e := range frontierOut {
		if frontier[e.TargetID] || dead[e.TargetID] {
			addEdge(e)
		}
	}

	sccs, err := dgraph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, fmt.Errorf("condense cluster graph: %w", err)
	}

	compOf := map[string]int{}
	for i, comp := range sccs {
		for _, id := range comp {
			compOf[id] = i
		}
	}

	// Predecessor components, from every edge we loaded.
	preds := make(map[int]map[int]bool, len(sccs))
	allEdges := append(append(append([]graph.CallEdge{}, outEdges...), inEdges...), frontierOut...)
	for _, e := range allEdges {
		su, okU := compOf[e.SourceID]
		sv, okV := compOf[e.TargetID]
		if okU && okV && su != sv {
			if preds[sv] == nil {
				preds[sv] = map[int]bool{}
			}
			preds[sv][su] = true
		}
	}

	// Fixpoint over the condensation: a component is dead when all its
	// members are in the assessed set and every predecessor component is
	// dead. Findings seed the fixpoint (they have no incoming calls).
	deadComp := make([]bool, len(sccs))
	assessable := func(comp []string) bool {
		for _, id := range comp {
			if !dead[id] && !frontier[id] {
				return false
			}
		}
		return true
	}
	for changed := true; changed; {
		changed = false
		for i, comp := range sccs {
			if deadComp[i] || !assessable(comp) {
				continue
			}
			allDead := true
			for p := range preds[i] {
				if !deadComp[p] {
					allDead = false
					break
				}
			}
			if allDead {
				deadComp[i] = true
				changed = true
			}
		}
	}

	var transitive []string
	clusterCount := 0
	for i, comp := range sccs {
		if !deadComp[i] {
			continue
		}
		if len(comp) > 1 {
			clusterCount++
		}
		for _, id := range comp {
			if !dead[id] {
				transitive = append(transitive, id)
			}
		}
	}
	if len(transitive) == 0 {
		return nil, nil
	}

	names, err := q.FindSymbolNames(ctx, transitive)
	if err != nil {
		return nil, fmt.Errorf("resolve cluster symbol names: %w", err)
	}
	display := make([]string, 0, len(transitive))
	for _, id := range transitive {
		if n, ok := names[id]; ok {
			display = append(display, n)
		}
	}
	sort.Strings(display)
	if len(display) > maxClusterNoteNames {
		display = append(display[:maxClusterNoteNames], "...")
	}

	notes := []string{fmt.Sprintf(
		"%d additional symbol(s) are called only from dead code and are likely dead as well: %s",
		len(transitive), strings.Join(display, ", "),
	)}
	if clusterCount > 0 {
		notes = append(notes, fmt.Sprintf(
			"%d mutually recursive group(s) keep each other alive with no outside callers",
			clusterCount,
		))
	}
	return notes, nil
}

func setKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
