// Package nodelink renders editor graphs as node-link diagrams with Graphviz.
//
// Regular nodes become record shapes with their input ports on the left and
// output ports on the right, so edges attach where they do in the editor.
// Redirect nodes render as small points, which makes the result of a knife
// gesture easy to inspect.
//
//	dot := nodelink.ToDOT(g.Document(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering uses the WebAssembly build of Graphviz bundled with go-graphviz, so
// no system installation is required.
package nodelink
