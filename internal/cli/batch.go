package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/happyhackingspace/stayprice"
	"github.com/spf13/cobra"
)

func (c *CLI) newBatchCommand() *cobra.Command {
	var (
		out      string
		features bool
	)

	cmd := &cobra.Command{
		Use:   "batch <listings.csv>",
		Short: "Score every listing in an Inside Airbnb listings.csv",
		Args:  cobra.ExactArgs(1),
		Example: `  stayprice batch listings.csv
  stayprice batch listings.csv --out predictions.csv
  stayprice batch listings.csv --features --out rows.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p, err := loadPredictor(cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			var w io.Writer = os.Stdout
			if out != "" {
				of, err := os.Create(out)
				if err != nil {
					return err
				}
				defer func() { _ = of.Close() }()
				w = of
			}

			slog.Info("Scoring listings", "path", args[0])
			start := time.Now()
			res, err := p.ScoreCSV(cmd.Context(), f, w, &stayprice.BatchConfig{Features: features})
			if err != nil {
				return err
			}
			slog.Info("Batch complete",
				"rows", res.Rows,
				"failed", res.Failed,
				"duration", time.Since(start),
			)
			if res.Scored > 0 {
				slog.Info("Error against listed prices",
					"scored", res.Scored,
					"mae", fmt.Sprintf("%.2f", res.MAE),
					"rmse", fmt.Sprintf("%.2f", res.RMSE),
				)
			}
			if out != "" {
				slog.Info("Predictions saved", "path", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output CSV path (default: stdout)")
	cmd.Flags().BoolVar(&features, "features", false, "Include the assembled feature row in the output")
	return cmd
}
