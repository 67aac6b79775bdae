package integrations

import "github.com/matzehuels/edgeknife/pkg/knife"

// DeleteOnlyName is the flavor name of views without redirect support.
const DeleteOnlyName = "none"

// DeleteOnly handles views whose graphs have no redirect nodes. Their gestures
// can only cut edges.
type DeleteOnly struct{}

var _ Flavor = DeleteOnly{}

func (DeleteOnly) Name() string                         { return DeleteOnlyName }
func (DeleteOnly) Match(v View) bool                    { return v.Flavor() == DeleteOnlyName }
func (DeleteOnly) Redirects(View) knife.RedirectCreator { return nil }
