package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/happyhackingspace/stayprice/internal/collect"
	"github.com/happyhackingspace/stayprice/internal/importer"
	"github.com/happyhackingspace/stayprice/internal/storage"
	"github.com/spf13/cobra"
)

func (c *CLI) newCollectCommand() *cobra.Command {
	var (
		out      string
		delay    time.Duration
		maxPages int
		render   bool
		noRobots bool
	)

	cmd := &cobra.Command{
		Use:   "collect <seeds>",
		Short: "Import listing pages from a seed file into a listings CSV",
		Args:  cobra.ExactArgs(1),
		Example: `  stayprice collect seeds.jsonl --out data/listings.csv
  stayprice collect urls.txt --out data/listings.csv --delay 2s --max 100
  stayprice collect seeds.jsonl --out data/listings.csv && stayprice batch data/listings.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			seeds, err := collect.LoadSeeds(args[0])
			if err != nil {
				return fmt.Errorf("load seeds: %w", err)
			}
			slog.Info("Loaded seeds", "count", len(seeds))

			seen, err := collect.Seen(out)
			if err != nil {
				return fmt.Errorf("read %s: %w", out, err)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(out, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			lw, err := storage.NewListingWriter(f, info.Size() == 0)
			if err != nil {
				return err
			}

			im := importer.New(importer.Options{
				UserAgent:   cfg.Fetch.UserAgent,
				Timeout:     cfg.Fetch.Timeout,
				Render:      render || cfg.Fetch.Render,
				CheckRobots: cfg.Fetch.CheckRobots && !noRobots,
			})
			stats, err := collect.Run(cmd.Context(), im, seeds, lw, seen, collect.Options{
				Delay: delay,
				Max:   maxPages,
			})
			slog.Info("Collection complete",
				"collected", stats.Collected,
				"skipped", stats.Skipped,
				"failed", stats.Failed,
				"path", out,
			)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "listings.csv", "Listings CSV to append to")
	cmd.Flags().DurationVar(&delay, "delay", time.Second, "Delay between page fetches")
	cmd.Flags().IntVar(&maxPages, "max", 0, "Max pages to collect (0=unlimited)")
	cmd.Flags().BoolVar(&render, "render", false, "Render pages in headless Chrome before parsing")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "Skip the robots.txt check")
	return cmd
}
