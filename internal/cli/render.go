package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path; empty derives it from the input
	dot      bool   // emit Graphviz DOT instead of SVG
	detailed bool   // show port names and value types
}

// renderCommand creates the render command, which draws a graph document as
// a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [graph]",
		Short: "Render a graph document to SVG",
		Example: `  edgeknife render graph.json
  edgeknife render graph.json --detailed -o graph.svg
  edgeknife render graph.json --dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: input name with .svg or .dot)")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "write Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show port names and value types")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	prog := newProgress(c.Logger)

	doc, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	c.Logger.Debugf("Loaded graph: %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))

	ext := ".svg"
	if opts.dot {
		ext = ".dot"
	}
	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}

	ropts := nodelink.Options{Detailed: opts.detailed}
	if opts.dot {
		err = writeOutput(path, []byte(nodelink.ToDOT(doc, ropts)))
	} else {
		err = writeSVG(ctx, doc, path, ropts)
	}
	if err != nil {
		return err
	}

	prog.done("Rendered " + input)
	if path != "-" {
		printSuccess("Rendered %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
		printFile(path)
	}
	return nil
}

// writeSVG renders doc with Graphviz and writes the SVG to path.
func writeSVG(ctx context.Context, doc graph.Document, path string, opts nodelink.Options) error {
	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(doc, opts))
	if err != nil {
		return err
	}
	return writeOutput(path, svg)
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}
