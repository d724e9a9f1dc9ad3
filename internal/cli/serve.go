package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treegen/pkg/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tree API over HTTP",
		Long: `Serve the tree HTTP API until interrupted:

  GET    /healthz              build information
  POST   /v1/decode            CBOR body as JSON
  POST   /v1/check             deserialize and check a tree
  PUT    /v1/trees             store a tree, answering its key
  GET    /v1/trees/{key}       the stored tree
  GET    /v1/trees/{key}/dump  the stored tree, dumped
  DELETE /v1/trees/{key}       remove a stored tree

Trees are kept in the cache backend of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := c.registry()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.cfg().Server.Addr
			}

			cfg := server.Config{
				Addr:     addr,
				Registry: reg,
				Logger:   loggerFromContext(ctx),
			}
			if !noStore {
				store, err := c.openStore(ctx)
				if err != nil {
					return err
				}
				defer store.Cache.Close()
				cfg.Store = store
			}
			printInfo(cmd.OutOrStdout(), "Serving on %s, press Ctrl+C to stop", StyleHighlight.Render(addr))
			return server.New(cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, or :8080)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the /v1/trees routes")

	return cmd
}
