package integrations

import (
	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/knife"
	"github.com/matzehuels/edgeknife/pkg/surface"
)

// EditorView is a View backed by a headless surface tree. The view element
// receives events, an overlay child covers it for the knife path, and the
// graph's content space sits under the view element.
type EditorView struct {
	id      string
	flavor  string
	element *surface.Element
	overlay *surface.Element
	graph   *graph.Graph
}

var _ View = (*EditorView)(nil)

// NewEditorView adds a view element under parent. The view has no graph until
// Load is called.
func NewEditorView(id, flavor string, parent *surface.Element, transform geom.Affine) *EditorView {
	el := parent.NewChild(id, transform)
	return &EditorView{
		id:      id,
		flavor:  flavor,
		element: el,
		overlay: el.NewChild(id+"/knife", geom.Identity()),
	}
}

// Load builds the view's graph from doc.
func (v *EditorView) Load(doc graph.Document) error {
	g, err := graph.FromDocument(doc, v.element)
	if err != nil {
		return err
	}
	v.graph = g
	v.element.MarkDirtyRepaint()
	return nil
}

func (v *EditorView) ID() string                { return v.id }
func (v *EditorView) Flavor() string            { return v.flavor }
func (v *EditorView) Target() knife.Target      { return v.element }
func (v *EditorView) Overlay() knife.Surface    { return v.overlay }
func (v *EditorView) Graph() *graph.Graph       { return v.graph }
func (v *EditorView) Element() *surface.Element { return v.element }

// OverlayElement returns the overlay as a surface element, for hosts that draw it.
func (v *EditorView) OverlayElement() *surface.Element { return v.overlay }
