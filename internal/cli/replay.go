package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/render/nodelink"
	"github.com/matzehuels/edgeknife/pkg/script"
	"github.com/matzehuels/edgeknife/pkg/session"
)

// replayOpts holds the command-line flags for the replay command.
type replayOpts struct {
	knife   knifeFlags
	output  string // output document path; empty writes to stdout
	inPlace bool   // overwrite the input document
	svg     string // optional SVG rendering of the result
}

// replayCommand creates the replay command, which runs scripted gestures
// against a graph document and writes the edited document.
func (c *CLI) replayCommand() *cobra.Command {
	var opts replayOpts

	cmd := &cobra.Command{
		Use:   "replay [graph] [script...]",
		Short: "Replay scripted knife gestures against a graph",
		Long: `Replay loads a graph document, dispatches the events of each TOML script
into a headless editor view in order, and writes the edited document.

Scripts are applied to the same session, so a gesture may span scripts.`,
		Example: `  edgeknife replay graph.json cut.toml -o cut.json
  edgeknife replay graph.json splice.toml --flavor vfx --in-place
  edgeknife replay graph.json cut.toml --svg cut.svg > cut.json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.inPlace {
				if opts.output != "" {
					return errors.New(errors.ErrCodeInvalidInput, "--in-place and --output are mutually exclusive")
				}
				opts.output = args[0]
			}
			cfg, err := c.resolve(cmd, &opts.knife)
			if err != nil {
				return err
			}
			return c.runReplay(cmd.Context(), cfg, args[0], args[1:], opts)
		},
	}

	opts.knife.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output document (default stdout)")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "overwrite the input document")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "also render the result to this SVG file")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, cfg Config, graphPath string, scriptPaths []string, opts replayOpts) error {
	prog := newProgress(c.Logger)

	doc, err := graph.ReadFile(graphPath)
	if err != nil {
		return err
	}
	scripts := make([]*script.Script, 0, len(scriptPaths))
	for _, p := range scriptPaths {
		sc, err := script.Load(p)
		if err != nil {
			return err
		}
		scripts = append(scripts, sc)
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

	delta := graphDelta{nodesBefore: len(doc.Nodes), edgesBefore: len(doc.Edges)}
	for i, sc := range scripts {
		n, err := sess.Replay(sc)
		if err != nil {
			return err
		}
		c.Logger.Debug("replayed script", "script", scriptName(sc, scriptPaths[i]), "events", n, "revision", sess.Revision())
	}
	out := sess.Document()
	delta.nodesAfter, delta.edgesAfter = len(out.Nodes), len(out.Edges)

	if sess.Gesture().Active() {
		c.Logger.Warn("scripts ended mid-gesture; the unfinished stroke was discarded")
	}

	if opts.output == "" {
		if err := graph.WriteDocument(out, os.Stdout); err != nil {
			return err
		}
	} else if err := graph.WriteFile(out, opts.output); err != nil {
		return err
	}

	if opts.svg != "" {
		if err := writeSVG(ctx, out, opts.svg, nodelink.Options{}); err != nil {
			return err
		}
	}

	prog.done("Replay finished", "scripts", len(scripts), "revision", sess.Revision())
	if opts.output == "" {
		return nil
	}

	if delta.changed() {
		printSuccess("Replayed %d script(s)", len(scripts))
	} else {
		printWarning("Scripts made no changes")
	}
	printStats(delta)
	printFile(opts.output)
	if opts.svg != "" {
		printFile(opts.svg)
	} else {
		printNextStep("Render it", "edgeknife render "+opts.output)
	}
	return nil
}

func scriptName(sc *script.Script, path string) string {
	if sc.Name != "" {
		return sc.Name
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
