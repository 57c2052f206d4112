package cli

import (
	"github.com/happyhackingspace/stayprice/internal/history"
	"github.com/happyhackingspace/stayprice/internal/server"
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over a JSON HTTP API",
		Args:  cobra.NoArgs,
		Example: `  stayprice serve
  stayprice serve --addr :9000 -c stayprice.yaml
  STAYPRICE_DATABASE_URL=postgres://localhost/stayprice stayprice serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			p, err := loadPredictor(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := history.Open(ctx, cfg.History)
			if err != nil {
				return err
			}
			if store != nil {
				defer func() { _ = store.Close() }()
			}

			opts := server.OptionsFrom(cfg.Server)
			opts.History = store
			opts.Version = c.version
			return server.New(p, opts).ListenAndServe(ctx, cfg.Server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
