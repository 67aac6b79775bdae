package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/session"
)

func newTestEditor(t *testing.T, flavor string) editorModel {
	t.Helper()
	sess, err := session.New(testDocument(), session.Config{Flavor: flavor})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sess.Close)

	m := newEditorModel(sess, "graph.json", defaultConfig().Editor)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return next.(editorModel)
}

func send(m editorModel, msgs ...tea.Msg) editorModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(editorModel)
	}
	return m
}

// stroke drags down column col from row 0 to row 10; with the default cell
// size that is x=195, y=10..210 in world units.
func stroke(col int, button tea.MouseButton, ctrl, shift bool) []tea.Msg {
	msgs := []tea.Msg{tea.MouseMsg{X: col, Y: 0, Button: button, Action: tea.MouseActionPress, Ctrl: ctrl, Shift: shift}}
	for y := 1; y <= 10; y++ {
		msgs = append(msgs, tea.MouseMsg{X: col, Y: y, Button: button, Action: tea.MouseActionMotion, Ctrl: ctrl, Shift: shift})
	}
	return append(msgs, tea.MouseMsg{X: col, Y: 10, Button: button, Action: tea.MouseActionRelease})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditor_ControlRightDragCuts(t *testing.T) {
	m := newTestEditor(t, "none")
	m = send(m, stroke(19, tea.MouseButtonRight, true, false)...)

	if n := len(m.sess.Document().Edges); n != 0 {
		t.Errorf("edges after cut = %d, want 0", n)
	}
	if !m.dirty() {
		t.Error("editor should be dirty after a cut")
	}
}

func TestEditor_PlainDragIgnored(t *testing.T) {
	m := newTestEditor(t, "none")
	m = send(m, stroke(19, tea.MouseButtonRight, false, false)...)
	m = send(m, stroke(19, tea.MouseButtonLeft, false, false)...)

	if n := len(m.sess.Document().Edges); n != 2 {
		t.Errorf("edges = %d, want 2", n)
	}
	if m.dirty() {
		t.Error("editor should be clean")
	}
}

func TestEditor_ArmedLeftDragSplices(t *testing.T) {
	m := newTestEditor(t, "shader")
	m = send(m, keyRunes("s"))
	if m.armed != "shift" {
		t.Fatalf("armed = %q, want shift", m.armed)
	}

	m = send(m, stroke(19, tea.MouseButtonLeft, false, false)...)

	redirects := 0
	for _, n := range m.sess.Document().Nodes {
		if n.Kind == graph.KindRedirect {
			redirects++
		}
	}
	if redirects == 0 {
		t.Error("armed splice should insert redirects")
	}
	if m.armed != "" {
		t.Errorf("armed = %q after the stroke, want it cleared", m.armed)
	}
}

func TestEditor_EscapeCancels(t *testing.T) {
	m := newTestEditor(t, "none")
	msgs := stroke(19, tea.MouseButtonRight, true, false)

	// Everything but the release, then escape.
	m = send(m, msgs[:len(msgs)-1]...)
	if !m.sess.Gesture().Active() {
		t.Fatal("gesture should be active mid-stroke")
	}
	if !strings.Contains(m.View(), "subtractive") {
		t.Error("status bar should show the active mode")
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc}, msgs[len(msgs)-1])
	if m.sess.Gesture().Active() {
		t.Error("escape should cancel the gesture")
	}
	if n := len(m.sess.Document().Edges); n != 2 {
		t.Errorf("edges after cancelled stroke = %d, want 2", n)
	}
}

func TestEditor_Save(t *testing.T) {
	m := newTestEditor(t, "none")
	var written []graph.Document
	m.write = func(d graph.Document) error {
		written = append(written, d)
		return nil
	}

	m = send(m, stroke(19, tea.MouseButtonRight, true, false)...)
	m = send(m, keyRunes("w"))

	if len(written) != 1 || len(written[0].Edges) != 0 {
		t.Fatalf("written = %+v, want one document without edges", written)
	}
	if m.dirty() {
		t.Error("editor should be clean after writing")
	}
	if m.written != 1 {
		t.Errorf("written = %d, want 1", m.written)
	}
}

func TestEditor_PanShiftsPointer(t *testing.T) {
	m := newTestEditor(t, "none")
	m = send(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})

	// Panned 8 columns left, so screen column 27 is world column 19.
	m = send(m, stroke(27, tea.MouseButtonRight, true, false)...)
	if n := len(m.sess.Document().Edges); n != 0 {
		t.Errorf("edges after panned cut = %d, want 0", n)
	}
}

func TestEditor_View(t *testing.T) {
	m := newTestEditor(t, "none")
	view := m.View()

	lines := strings.Split(view, "\n")
	if len(lines) != 20 {
		t.Errorf("View() has %d lines, want 20", len(lines))
	}
	for _, want := range []string{"Noise", "Mix", "graph.json", "2 edges", "none"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}

func TestEditor_Quit(t *testing.T) {
	m := newTestEditor(t, "none")
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestCanvasLine(t *testing.T) {
	cv := newCanvas(5, 5)
	cv.line([2]int{0, 0}, [2]int{4, 4}, '*', layerEdge)
	// The second line overwrites the shared corner.
	cv.line([2]int{4, 0}, [2]int{0, 0}, '-', layerEdge)

	for i := range 5 {
		if i > 0 && cv.runes[i][i] != '*' {
			t.Errorf("diagonal cell %d = %q, want *", i, cv.runes[i][i])
		}
		if cv.runes[0][i] != '-' {
			t.Errorf("top row cell %d = %q, want -", i, cv.runes[0][i])
		}
	}

	// Lower layers never overwrite higher ones.
	cv.set([2]int{2, 2}, 'N', layerNode)
	cv.set([2]int{2, 2}, '.', layerEdge)
	if cv.runes[2][2] != 'N' {
		t.Errorf("cell = %q, want N", cv.runes[2][2])
	}

	// Out of bounds is ignored.
	cv.set([2]int{-1, 9}, 'x', layerKnife)
}
