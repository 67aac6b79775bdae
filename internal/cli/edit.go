package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/matzehuels/edgeknife/pkg/geom"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/knife"
	"github.com/matzehuels/edgeknife/pkg/script"
	"github.com/matzehuels/edgeknife/pkg/session"
)

// editCommand creates the edit command, an interactive terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var flags knifeFlags

	cmd := &cobra.Command{
		Use:   "edit [graph]",
		Short: "Cut and splice edges interactively in the terminal",
		Long: `Edit opens a graph document in a mouse-driven terminal view.

  ctrl+right-drag    delete the edges the stroke crosses
  shift+right-drag   insert redirect nodes into them
  c / s              arm a cut or splice for the next left-drag
  esc                cancel the stroke in progress
  arrows             pan
  w                  write the document back
  q                  quit

Many terminals swallow modified right clicks; the c and s keys turn a plain
left-drag into the same stroke.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolve(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), cfg, args[0])
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runEdit(ctx context.Context, cfg Config, path string) error {
	doc, err := graph.ReadFile(path)
	if err != nil {
		return err
	}
	scfg, err := c.sessionConfig(cfg)
	if err != nil {
		return err
	}
	sess, err := session.New(doc, scfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	m := newEditorModel(sess, path, cfg.Editor)
	m.write = func(d graph.Document) error { return graph.WriteFile(d, path) }

	// The alt screen hides log output; only warnings get through.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(max(level, LogWarn))
	defer c.Logger.SetLevel(level)

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	if em, ok := final.(editorModel); ok {
		switch {
		case em.dirty():
			printWarning("Quit with unsaved changes")
		case em.written > 0:
			printSuccess("Saved %s", path)
			printFile(path)
		}
	}
	return nil
}

// =============================================================================
// Editor Model
// =============================================================================

// statusLines is how many terminal rows the status bar takes.
const statusLines = 2

// editorModel is the bubbletea model for `edgeknife edit`. One terminal cell
// covers cell world units; offset pans the grid in cells.
type editorModel struct {
	sess   *session.Session
	path   string
	cell   orb.Point
	offset [2]int
	width  int
	height int

	// armed substitutes a modifier for a left-drag; promoted marks the drag
	// it was used for.
	armed    string
	promoted bool

	saved   int // revision last written
	written int // number of writes
	status  string
	write   func(graph.Document) error
}

func newEditorModel(sess *session.Session, path string, cfg EditorConfig) editorModel {
	return editorModel{
		sess:   sess,
		path:   path,
		cell:   orb.Point{cfg.CellWidth, cfg.CellHeight},
		width:  80,
		height: 24,
		saved:  sess.Revision(),
	}
}

func (m editorModel) dirty() bool { return m.sess.Revision() != m.saved }

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.armed, m.promoted = "", false
			m.apply(script.Event{Kind: script.KindKey, Key: string(knife.KeyEscape)})
		case "c":
			m.armed = "control"
			m.status = "cut armed: left-drag across edges"
		case "s":
			m.armed = "shift"
			m.status = "splice armed: left-drag across edges"
		case "w":
			m.save()
		case "up":
			m.offset[1] -= 2
		case "down":
			m.offset[1] += 2
		case "left":
			m.offset[0] -= 4
		case "right":
			m.offset[0] += 4
		}

	case tea.MouseMsg:
		if ev, ok := m.mouseEvent(msg); ok {
			before := m.sess.Revision()
			m.apply(ev)
			if m.sess.Revision() != before {
				doc := m.sess.Document()
				m.status = fmt.Sprintf("%d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
			}
		}
	}
	return m, nil
}

func (m *editorModel) apply(ev script.Event) {
	if _, err := m.sess.Apply(ev); err != nil {
		m.status = err.Error()
	}
}

func (m *editorModel) save() {
	if m.write == nil {
		return
	}
	if err := m.write(m.sess.Document()); err != nil {
		m.status = err.Error()
		return
	}
	m.saved = m.sess.Revision()
	m.written++
	m.status = "wrote " + m.path
}

// mouseEvent translates a terminal mouse event into a knife input event at
// the centre of the cell under the pointer.
func (m *editorModel) mouseEvent(msg tea.MouseMsg) (script.Event, bool) {
	ev := script.Event{
		X:         (float64(msg.X+m.offset[0]) + 0.5) * m.cell[0],
		Y:         (float64(msg.Y+m.offset[1]) + 0.5) * m.cell[1],
		Modifiers: mouseModifiers(msg),
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonRight:
			ev.Kind, ev.Button = script.KindDown, "right"
		case tea.MouseButtonLeft:
			if m.armed == "" {
				return ev, false
			}
			ev.Kind, ev.Button = script.KindDown, "right"
			ev.Modifiers = []string{m.armed}
			m.promoted = true
		default:
			return ev, false
		}

	case tea.MouseActionMotion:
		ev.Kind = script.KindMove

	case tea.MouseActionRelease:
		ev.Kind, ev.Button = script.KindUp, "right"
		if m.promoted {
			m.armed, m.promoted = "", false
			m.status = ""
		}

	default:
		return ev, false
	}
	return ev, true
}

func mouseModifiers(msg tea.MouseMsg) []string {
	var mods []string
	if msg.Shift {
		mods = append(mods, "shift")
	}
	if msg.Ctrl {
		mods = append(mods, "control")
	}
	if msg.Alt {
		mods = append(mods, "alt")
	}
	return mods
}

// =============================================================================
// Drawing
// =============================================================================

var (
	editorEdgeStyle     = lipgloss.NewStyle().Foreground(colorGray)
	editorNodeStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	editorRedirectStyle = lipgloss.NewStyle().Foreground(colorCyan)
	editorStatusStyle   = lipgloss.NewStyle().Foreground(colorWhite).Background(colorDim)
)

func (m editorModel) View() string {
	rows := max(m.height-statusLines, 1)
	cv := newCanvas(max(m.width, 1), rows)

	g := m.sess.Graph()
	toWorld := geom.Transform(g.ContentSpace(), nil)

	for _, e := range g.EdgeViews() {
		pts := e.ContentPolyline()
		for i := 1; i < len(pts); i++ {
			cv.line(m.cellOf(toWorld.Apply(pts[i-1])), m.cellOf(toWorld.Apply(pts[i])), '·', layerEdge)
		}
	}
	for _, n := range g.Nodes() {
		b := toWorld.ApplyBound(n.Bound())
		if n.IsRedirect() {
			cv.set(m.cellOf(b.Center()), '◆', layerRedirect)
			continue
		}
		cv.box(m.cellOf(b.Min), m.cellOf(b.Max), n.DisplayTitle())
	}

	st := m.sess.State()
	for i := 1; i < len(st.Path); i++ {
		cv.line(m.cellOf(st.Path[i-1]), m.cellOf(st.Path[i]), '•', layerKnife)
	}
	if len(st.Path) == 1 {
		cv.set(m.cellOf(st.Path[0]), '•', layerKnife)
	}

	styles := [...]lipgloss.Style{
		layerEmpty:    lipgloss.NewStyle(),
		layerEdge:     editorEdgeStyle,
		layerNode:     editorNodeStyle,
		layerRedirect: editorRedirectStyle,
		layerKnife:    lipgloss.NewStyle().Foreground(lipgloss.Color(st.Color)).Bold(true),
	}

	var b strings.Builder
	b.WriteString(cv.render(styles[:]))
	b.WriteString("\n")
	b.WriteString(m.statusBar(st))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("ctrl/shift+right-drag or c/s then drag · esc cancel · arrows pan · w write · q quit"))
	return b.String()
}

func (m editorModel) statusBar(st session.State) string {
	doc := m.sess.Document()
	mark := ""
	if m.dirty() {
		mark = "*"
	}
	parts := []string{
		m.path + mark,
		st.Mode,
		fmt.Sprintf("%d nodes", len(doc.Nodes)),
		fmt.Sprintf("%d edges", len(doc.Edges)),
		m.sess.View().Flavor(),
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return editorStatusStyle.Width(max(m.width, 1)).MaxHeight(1).Render(" " + strings.Join(parts, " │ "))
}

func (m editorModel) cellOf(p orb.Point) [2]int {
	return [2]int{
		int(math.Floor(p[0]/m.cell[0])) - m.offset[0],
		int(math.Floor(p[1]/m.cell[1])) - m.offset[1],
	}
}

// =============================================================================
// Canvas
// =============================================================================

// layer orders what is drawn on top: a cell keeps the highest layer written.
type layer uint8

const (
	layerEmpty layer = iota
	layerEdge
	layerNode
	layerRedirect
	layerKnife
)

type canvas struct {
	w, h   int
	runes  [][]rune
	layers [][]layer
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([][]rune, h), layers: make([][]layer, h)}
	for y := range h {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.layers[y] = make([]layer, w)
	}
	return c
}

func (c *canvas) set(p [2]int, r rune, l layer) {
	x, y := p[0], p[1]
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	if l < c.layers[y][x] {
		return
	}
	c.runes[y][x] = r
	c.layers[y][x] = l
}

// line draws from a to b with Bresenham's algorithm.
func (c *canvas) line(a, b [2]int, r rune, l layer) {
	dx := abs(b[0] - a[0])
	dy := -abs(b[1] - a[1])
	sx, sy := sign(b[0]-a[0]), sign(b[1]-a[1])
	e := dx + dy
	for p := a; ; {
		c.set(p, r, l)
		if p == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			p[0] += sx
		}
		if e2 <= dx {
			e += dx
			p[1] += sy
		}
	}
}

// box draws a node frame between min and max with the title on its top edge.
func (c *canvas) box(lo, hi [2]int, title string) {
	if hi[0] <= lo[0] || hi[1] <= lo[1] {
		c.set(lo, '■', layerNode)
		return
	}
	for x := lo[0] + 1; x < hi[0]; x++ {
		c.set([2]int{x, lo[1]}, '─', layerNode)
		c.set([2]int{x, hi[1]}, '─', layerNode)
	}
	for y := lo[1] + 1; y < hi[1]; y++ {
		c.set([2]int{lo[0], y}, '│', layerNode)
		c.set([2]int{hi[0], y}, '│', layerNode)
	}
	c.set(lo, '┌', layerNode)
	c.set([2]int{hi[0], lo[1]}, '┐', layerNode)
	c.set([2]int{lo[0], hi[1]}, '└', layerNode)
	c.set(hi, '┘', layerNode)

	room := hi[0] - lo[0] - 1
	for i, r := range []rune(title) {
		if i >= room {
			break
		}
		c.set([2]int{lo[0] + 1 + i, lo[1]}, r, layerNode)
	}
}

// render styles each run of same-layer cells.
func (c *canvas) render(styles []lipgloss.Style) string {
	lines := make([]string, c.h)
	for y := range c.h {
		var b strings.Builder
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.layers[y][x] == c.layers[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if l := c.layers[y][start]; l == layerEmpty {
				b.WriteString(run)
			} else {
				b.WriteString(styles[l].Render(run))
			}
			start = x
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
