package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/edgeknife/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds port names and value types to node labels.
	// When false, only titles are shown.
	Detailed bool
}

// ToDOT converts a document to Graphviz DOT format.
//
// Ports are addressed by their index within the node (p0, p1, ...) because port
// IDs are not guaranteed to be valid record field names. Edges whose ports are
// missing from the document are skipped.
func ToDOT(doc graph.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	ports := make(map[string]portRef)
	for _, n := range doc.Nodes {
		for i, p := range n.Ports {
			ports[p.ID] = portRef{node: n.ID, index: i, point: n.IsRedirect()}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		from, ok := ports[e.From]
		if !ok {
			continue
		}
		to, ok := ports[e.To]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", from.format("e"), to.format("w"))
	}

	buf.WriteString("}\n")
	return buf.String()
}

type portRef struct {
	node  string
	index int
	point bool
}

// format addresses the port's record field and compass side. Point-shaped
// redirect nodes have no fields, so edges attach to the node itself.
func (r portRef) format(side string) string {
	if r.point {
		return strconv.Quote(r.node)
	}
	return fmt.Sprintf("%q:p%d:%s", r.node, r.index, side)
}

func fmtAttrs(n graph.Node, opts Options) []string {
	if n.IsRedirect() {
		return []string{"shape=point", "width=0.15", "label=\"\"", "fillcolor=black"}
	}

	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if n.Collapsed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	if n.Group != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", "group: "+n.Group))
	}
	return attrs
}

// fmtLabel builds a record label "{{<p0> a|<p1> b}|title|{<p2> out}}".
func fmtLabel(n graph.Node, detailed bool) string {
	var in, out []string
	for i, p := range n.Ports {
		name := p.Name
		if detailed && p.ValueType != "" {
			name = strings.TrimSpace(name + " : " + p.ValueType)
		}
		field := fmt.Sprintf("<p%d> %s", i, escapeRecord(name))
		if p.Direction == graph.DirIn {
			in = append(in, field)
		} else {
			out = append(out, field)
		}
	}

	parts := make([]string, 0, 3)
	if len(in) > 0 {
		parts = append(parts, "{"+strings.Join(in, "|")+"}")
	}
	parts = append(parts, escapeRecord(n.DisplayTitle()))
	if len(out) > 0 {
		parts = append(parts, "{"+strings.Join(out, "|")+"}")
	}
	return "{" + strings.Join(parts, "|") + "}"
}

var recordEscaper = strings.NewReplacer(
	"{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`,
)

func escapeRecord(s string) string { return recordEscaper.Replace(s) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
