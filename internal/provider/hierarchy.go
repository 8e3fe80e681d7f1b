package provider

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
)

// hierarchy records extends/implements/use edges between entities so that
// cyclic inheritance is rejected at load time. Vertices for names declared
// outside the loaded files (external parents) are created on demand.
type hierarchy struct {
	g graph.Graph[string, string]
}

func newHierarchy() *hierarchy {
	return &hierarchy{
		g: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

// addEntities inserts every entity of one file, or none of them: edges go
// into a staged copy of the graph that replaces the live one only when the
// whole batch validates. A rejected file must not leave edges behind that
// could falsely disqualify a later load reusing the same names.
func (h *hierarchy) addEntities(entities []*EntityDecl) error {
	staged, err := h.g.Clone()
	if err != nil {
		return fmt.Errorf("staging inheritance graph: %w", err)
	}

	live := h.g
	h.g = staged
	for _, e := range entities {
		if err := h.addEntity(e); err != nil {
			h.g = live
			return err
		}
	}
	return nil
}

// addEntity inserts the entity and one edge per inheritance relation.
func (h *hierarchy) addEntity(e *EntityDecl) error {
	h.addVertex(e.Name)

	deps := make([]string, 0, 1+len(e.Interfaces)+len(e.Traits))
	if e.Parent != "" {
		deps = append(deps, e.Parent)
	}
	deps = append(deps, e.Interfaces...)
	deps = append(deps, e.Traits...)

	for _, dep := range deps {
		h.addVertex(dep)
		if err := h.g.AddEdge(e.Name, dep); err != nil {
			if errors.Is(err, graph.ErrEdgeCreatesCycle) {
				return fmt.Errorf("%w: inheritance cycle between %s and %s", ErrSourceLoad, e.Name, dep)
			}
			if !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("recording inheritance edge %s -> %s: %w", e.Name, dep, err)
			}
		}
	}
	return nil
}

func (h *hierarchy) addVertex(name string) {
	if err := h.g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		// AddVertex only fails on duplicates for this graph configuration.
		panic(fmt.Sprintf("hierarchy: add vertex %s: %v", name, err))
	}
}
