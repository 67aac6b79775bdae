// Package integrations attaches knife gestures to editor views.
//
// # Overview
//
// An editor host may show several graph views at once, of different graph
// flavors. Each flavor decides how redirect nodes are created in its graphs;
// the [Registry] keeps at most one [knife.Gesture] per live view and wires it to
// the flavor's [knife.RedirectCreator]:
//
//   - [shader]: redirects that merge sources, keep group membership and carry
//     the source value type
//   - [vfx]: collapsed inline redirects limited to supported value types,
//     offset from the cut like the host's own inline operators
//
// # Lifecycle
//
//	reg := integrations.NewRegistry(opts, shader.Flavor{}, vfx.Flavor{})
//	reg.Focus(view)   // attach on first focus, or queue until the graph is built
//	reg.RetryPending()
//	reg.Close(view.ID())
//
// Attaching a view that already has a gesture re-registers the same gesture, so
// hosts can call Attach after rebuilding a view's element tree. Views whose
// graph is not built yet are kept pending and retried on the next Focus or
// RetryPending.
//
// A Registry is not safe for concurrent use; it runs on the host's event thread
// like the gestures it owns.
//
// [shader]: github.com/matzehuels/edgeknife/pkg/integrations/shader
// [vfx]: github.com/matzehuels/edgeknife/pkg/integrations/vfx
package integrations
