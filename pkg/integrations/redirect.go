package integrations

import (
	"errors"
	"fmt"

	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

// ErrForeignEdge is returned when a knife edge does not belong to the flavor's graph.
var ErrForeignEdge = errors.New("edge does not belong to this graph")

// EdgeViews converts knife edges back into g's live edges.
func EdgeViews(g *graph.Graph, edges []knife.Edge) ([]*graph.EdgeView, error) {
	out := make([]*graph.EdgeView, 0, len(edges))
	for _, ke := range edges {
		e, ok := ke.(*graph.EdgeView)
		if !ok {
			return nil, fmt.Errorf("%T: %w", ke, ErrForeignEdge)
		}
		if live, ok := g.Edge(e.ID()); !ok || live != e {
			return nil, fmt.Errorf("%s: %w", e.ID(), ErrForeignEdge)
		}
		out = append(out, e)
	}
	return out, nil
}

// Rewire routes edges through redirect: each edge is removed, its destination is
// fed from the redirect's output, and its source feeds the redirect's input.
// Each distinct source and destination is connected once.
func Rewire(g *graph.Graph, redirect *graph.Node, edges []*graph.EdgeView) error {
	in, err := g.FirstPort(redirect.ID, graph.DirIn)
	if err != nil {
		return err
	}
	out, err := g.FirstPort(redirect.ID, graph.DirOut)
	if err != nil {
		return err
	}

	sources := make(map[*graph.Endpoint]bool)
	dests := make(map[*graph.Endpoint]bool)
	var errs []error
	for _, e := range edges {
		src, dst := e.From(), e.To()
		if err := g.RemoveEdge(e.ID()); err != nil {
			errs = append(errs, err)
			continue
		}
		if !sources[src] {
			sources[src] = true
			if _, err := g.Connect(src.PortID(), in.PortID()); err != nil {
				errs = append(errs, err)
			}
		}
		if !dests[dst] {
			dests[dst] = true
			if _, err := g.Connect(out.PortID(), dst.PortID()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
