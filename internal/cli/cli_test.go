package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/edgeknife/pkg/graph"
)

func testDocument() graph.Document {
	return graph.Document{
		Nodes: []graph.Node{
			{ID: "a", Title: "Noise", Ports: []graph.Port{{ID: "a.out", Direction: graph.DirOut, ValueType: "float"}}},
			{ID: "b", Title: "Time", Position: orb.Point{0, 100}, Ports: []graph.Port{{ID: "b.out", Direction: graph.DirOut, ValueType: "float"}}},
			{ID: "c", Title: "Mix", Position: orb.Point{300, 40}, Ports: []graph.Port{
				{ID: "c.x", Direction: graph.DirIn, ValueType: "float"},
				{ID: "c.y", Direction: graph.DirIn, ValueType: "float"},
			}},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "a.out", To: "c.x"},
			{ID: "e2", From: "b.out", To: "c.y"},
		},
	}
}

const cutScript = `
name = "cut"

[[event]]
kind = "drag"
modifiers = ["control"]
points = [[200.0, -50.0], [200.0, 80.0], [200.0, 200.0]]
`

const spliceScript = `
[[event]]
kind = "drag"
modifiers = ["shift"]
points = [[200.0, -50.0], [200.0, 200.0]]
`

// workspace writes the test graph and the given scripts into a temp dir and
// points the config lookup at an empty directory.
func workspace(t *testing.T, scripts ...string) (dir, graphPath string, scriptPaths []string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir = t.TempDir()
	graphPath = filepath.Join(dir, "graph.json")
	if err := graph.WriteFile(testDocument(), graphPath); err != nil {
		t.Fatal(err)
	}
	for i, body := range scripts {
		p := filepath.Join(dir, "script"+string(rune('0'+i))+".toml")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		scriptPaths = append(scriptPaths, p)
	}
	return dir, graphPath, scriptPaths
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	for _, name := range []string{"replay", "render", "edit", "serve", "completion"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root should have a --config flag")
	}
}

func TestReplay_Cut(t *testing.T) {
	dir, graphPath, scripts := workspace(t, cutScript)
	out := filepath.Join(dir, "out.json")

	if _, err := execute(t, "replay", graphPath, scripts[0], "-o", out, "--flavor", "none"); err != nil {
		t.Fatalf("replay error: %v", err)
	}

	doc, err := graph.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Edges) != 0 {
		t.Errorf("edges = %v, want none", doc.Edges)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(doc.Nodes))
	}
}

func TestReplay_SpliceInPlace(t *testing.T) {
	_, graphPath, scripts := workspace(t, spliceScript)

	if _, err := execute(t, "replay", graphPath, scripts[0], "--in-place", "--flavor", "vfx"); err != nil {
		t.Fatalf("replay error: %v", err)
	}

	doc, err := graph.ReadFile(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	redirects := 0
	for _, n := range doc.Nodes {
		if n.Kind == graph.KindRedirect {
			redirects++
		}
	}
	if redirects == 0 {
		t.Error("splice should have inserted redirect nodes")
	}
}

func TestReplay_ConfigFlavor(t *testing.T) {
	dir, graphPath, scripts := workspace(t, spliceScript)
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[knife]\nflavor = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")

	// The delete-only flavor never starts an additive stroke.
	if _, err := execute(t, "--config", cfgPath, "replay", graphPath, scripts[0], "-o", out); err != nil {
		t.Fatalf("replay error: %v", err)
	}
	doc, err := graph.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Edges) != 2 || len(doc.Nodes) != 3 {
		t.Errorf("graph changed under the none flavor: %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
}

func TestReplay_Errors(t *testing.T) {
	dir, graphPath, scripts := workspace(t, cutScript, "[[event]]\nkind = \"wiggle\"\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing script", []string{"replay", graphPath}, "arg"},
		{"unknown script file", []string{"replay", graphPath, filepath.Join(dir, "nope.toml")}, "FILE_NOT_FOUND"},
		{"bad script", []string{"replay", graphPath, scripts[1], "-o", filepath.Join(dir, "x.json")}, "wiggle"},
		{"unknown flavor", []string{"replay", graphPath, scripts[0], "--flavor", "houdini"}, "houdini"},
		{"in-place and output", []string{"replay", graphPath, scripts[0], "-i", "-o", "x.json"}, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("replay succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestRender_DOT(t *testing.T) {
	dir, graphPath, _ := workspace(t)
	out := filepath.Join(dir, "graph.dot")

	if _, err := execute(t, "render", graphPath, "--dot", "--detailed", "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("output is not DOT: %.40q", dot)
	}
	if !strings.Contains(dot, "Mix") {
		t.Error("DOT should contain node titles")
	}
}

func TestRender_DefaultOutputPath(t *testing.T) {
	dir, graphPath, _ := workspace(t)

	if _, err := execute(t, "render", graphPath, "--dot"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "graph.dot")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRender_SVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	dir, graphPath, _ := workspace(t)
	out := filepath.Join(dir, "graph.svg")

	if _, err := execute(t, "render", graphPath, "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output should be SVG")
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s output should mention %s", shell, appName)
			}
		})
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
