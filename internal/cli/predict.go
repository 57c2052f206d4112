package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/happyhackingspace/stayprice/internal/config"
	"github.com/happyhackingspace/stayprice/internal/history"
	"github.com/happyhackingspace/stayprice/listing"
	"github.com/spf13/cobra"
)

func (c *CLI) newPredictCommand() *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "predict [input.json]",
		Short: "Predict the nightly price of a listing",
		Args:  cobra.MaximumNArgs(1),
		Example: `  stayprice predict listing.json
  stayprice predict listing.json --model models/manchester
  stayprice import https://example.com/rooms/42 | stayprice predict
  stayprice predict listing.json --record -c stayprice.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			in, err := readInput(args)
			if err != nil {
				return err
			}
			logWarnings(in)

			p, err := loadPredictor(cfg)
			if err != nil {
				return err
			}
			pred, err := p.Predict(in)
			if err != nil {
				return err
			}
			slog.Debug("Predicted", "price", pred.Price, "position", pred.Report.Market.Position)

			if record {
				if err := recordPrediction(cmd.Context(), cfg.History, in, pred.Price, p.Metadata().Name); err != nil {
					return err
				}
			}
			return printJSON(pred)
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "Save the prediction to the configured history store")
	return cmd
}

func (c *CLI) newFeaturesCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "features [input.json]",
		Short: "Print the model feature row assembled for a listing",
		Args:  cobra.MaximumNArgs(1),
		Example: `  stayprice features listing.json
  stayprice features listing.json --all
  cat listing.json | stayprice features`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			in, err := readInput(args)
			if err != nil {
				return err
			}
			logWarnings(in)

			p, err := loadPredictor(cfg)
			if err != nil {
				return err
			}
			if all {
				return printJSON(recordRow(p.Record(in)))
			}
			return printJSON(p.Features(in))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Print every derived feature instead of the model row")
	return cmd
}

// recordRow lays out every derived feature as a row in column-name order,
// matching the shape of the model row.
func recordRow(rec listing.Record) listing.Row {
	row := listing.Row{Columns: rec.Keys()}
	row.Values = make([]float64, len(row.Columns))
	for i, c := range row.Columns {
		row.Values[i] = rec[c]
	}
	return row
}

func recordPrediction(ctx context.Context, cfg config.HistoryConfig, in *listing.Input, price float64, model string) error {
	store, err := history.Open(ctx, cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("history is not configured (set history.database_url or history.csv_path)")
	}
	defer func() { _ = store.Close() }()

	rec, err := history.NewRecord(in, price, model)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, rec); err != nil {
		return err
	}
	slog.Info("Prediction recorded", "id", rec.ID)
	return nil
}

func logWarnings(in *listing.Input) {
	if err := in.Validate(); err != nil {
		slog.Warn("Input has problems, using defaults", "error", err)
	}
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// readInput decodes a listing input from the named file, or from stdin when
// no file is given.
func readInput(args []string) (*listing.Input, error) {
	var (
		data []byte
		err  error
	)
	if len(args) > 0 && args[0] != "-" {
		slog.Debug("Reading input", "path", args[0])
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
	} else {
		if isStdinTerminal() {
			return nil, errors.New("no input: pass a JSON file or pipe one on stdin")
		}
		slog.Debug("Reading from stdin")
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, errors.New("input is empty")
	}

	var in listing.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return &in, nil
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}
