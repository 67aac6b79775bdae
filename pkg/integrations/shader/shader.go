// Package shader creates redirects for shader graphs.
//
// A redirect takes the value type of the first crossed edge's source port and
// joins the group both of that edge's nodes belong to, if they share one. All
// distinct sources of the bundle are merged into the redirect's input and the
// redirect's output feeds every original destination.
package shader

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/integrations"
	"github.com/matzehuels/edgeknife/pkg/knife"
)

// Name is the flavor name views report.
const Name = "shader"

// Flavor handles shader graph views.
type Flavor struct{}

var _ integrations.Flavor = Flavor{}

func (Flavor) Name() string                   { return Name }
func (Flavor) Match(v integrations.View) bool { return v.Flavor() == Name }

// Redirects returns a creator for the view's graph.
func (Flavor) Redirects(v integrations.View) knife.RedirectCreator {
	return NewRedirects(v.Graph())
}

// Redirects inserts shader redirect nodes into a graph.
type Redirects struct {
	graph *graph.Graph
}

// NewRedirects returns a creator working on g.
func NewRedirects(g *graph.Graph) *Redirects {
	return &Redirects{graph: g}
}

// CreateRedirect implements knife.RedirectCreator. position is in content space.
func (r *Redirects) CreateRedirect(position orb.Point, edges []knife.Edge) error {
	views, err := integrations.EdgeViews(r.graph, edges)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIntegration, err, "shader redirect")
	}
	if len(views) == 0 {
		return nil
	}

	first := views[0]
	from, to := first.From(), first.To()
	group := ""
	if from.Node().Group == to.Node().Group {
		group = to.Node().Group
	}

	node, err := r.graph.AddRedirect(position, from.Port().ValueType, group)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIntegration, err, "shader redirect")
	}
	if err := integrations.Rewire(r.graph, node, views); err != nil {
		return errors.Wrap(errors.ErrCodeIntegration, err, "rewire through %s", node.ID)
	}
	return nil
}
