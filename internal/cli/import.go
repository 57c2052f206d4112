package cli

import (
	"log/slog"
	"strings"

	"github.com/happyhackingspace/stayprice/internal/importer"
	"github.com/spf13/cobra"
)

func (c *CLI) newImportCommand() *cobra.Command {
	var (
		render   bool
		noRobots bool
		full     bool
	)

	cmd := &cobra.Command{
		Use:   "import <url-or-file>",
		Short: "Build a listing input from a listing page",
		Args:  cobra.ExactArgs(1),
		Example: `  stayprice import https://example.com/rooms/42
  stayprice import https://example.com/rooms/42 --render
  stayprice import saved-page.html --full
  stayprice import https://example.com/rooms/42 | stayprice predict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			target := args[0]

			var res *importer.Result
			if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
				im := importer.New(importer.Options{
					UserAgent:   cfg.Fetch.UserAgent,
					Timeout:     cfg.Fetch.Timeout,
					Render:      render || cfg.Fetch.Render,
					CheckRobots: cfg.Fetch.CheckRobots && !noRobots,
				})
				res, err = im.Import(cmd.Context(), target)
			} else {
				res, err = importer.ImportFile(target)
			}
			if err != nil {
				return err
			}
			slog.Info("Imported listing", "source", res.Source, "fields", len(res.Fields))

			if full {
				return printJSON(res)
			}
			return printJSON(res.Input)
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render the page in headless Chrome before parsing")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "Skip the robots.txt check")
	cmd.Flags().BoolVar(&full, "full", false, "Print the source URL and found fields along with the input")
	return cmd
}
