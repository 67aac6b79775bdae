package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/edgeknife/pkg/server"
	"github.com/matzehuels/edgeknife/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	knife knifeFlags
	addr  string // overrides EDGEKNIFE_ADDR
	store string // overrides EDGEKNIFE_STORE
}

// serveCommand creates the serve command, which runs the HTTP API.
// Server settings come from EDGEKNIFE_* environment variables; gesture
// settings come from the config file.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graphs and live knife sessions over HTTP",
		Long: `Serve stores graph documents and applies knife gestures to them over HTTP.

Endpoints live under /graphs; /graphs/{id}/live upgrades to a websocket that
streams knife state while a client drags. The store backend and its connection
settings are read from EDGEKNIFE_* environment variables:

  EDGEKNIFE_ADDR           listen address (default :8080)
  EDGEKNIFE_STORE          memory, file, redis, mongo or postgres
  EDGEKNIFE_FLAVOR         default redirect flavor (default shader)
  EDGEKNIFE_DATA_DIR       file store directory
  EDGEKNIFE_REDIS_ADDR     redis address
  EDGEKNIFE_MONGO_URI      mongo connection string
  EDGEKNIFE_DATABASE_URL   postgres connection string`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolve(cmd, &opts.knife)
			if err != nil {
				return err
			}
			scfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			if opts.addr != "" {
				scfg.Addr = opts.addr
			}
			if opts.store != "" {
				scfg.Store = opts.store
			}
			if cmd.Flags().Changed("flavor") {
				scfg.Flavor = cfg.Knife.Flavor
			}
			return c.runServe(cmd.Context(), cfg, scfg)
		},
	}

	opts.knife.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides EDGEKNIFE_ADDR)")
	cmd.Flags().StringVar(&opts.store, "store", "", "store backend (overrides EDGEKNIFE_STORE)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg Config, scfg *server.Config) error {
	kopts, err := cfg.Knife.Options()
	if err != nil {
		return err
	}
	kopts.Logger = knifeLogger(c.Logger)

	st, err := store.Open(ctx, scfg.StoreConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	printInfo("Listening on %s", StyleValue.Render(scfg.Addr))
	printKeyValue("store", scfg.Store)
	printKeyValue("flavor", scfg.Flavor)

	return server.New(*scfg, st, c.Logger, kopts).Run(ctx)
}
