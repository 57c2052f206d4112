package stayprice

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/happyhackingspace/stayprice/internal/storage"
)

// BatchConfig holds configuration for batch scoring.
type BatchConfig struct {
	// Features appends the assembled feature row to every output line.
	Features bool
}

// BatchResult summarizes a batch run. The error figures are only filled when
// the input carries a price column.
type BatchResult struct {
	Rows   int
	Failed int
	Scored int // rows with a listed price
	MAE    float64
	RMSE   float64
}

// ScoreCSV predicts a price for every listing in the CSV read from r and
// writes id,predicted_price lines to w. A row whose prediction fails is
// logged and skipped.
func (p *Predictor) ScoreCSV(ctx context.Context, r io.Reader, w io.Writer, config *BatchConfig) (*BatchResult, error) {
	withFeatures := config != nil && config.Features

	lr, err := storage.NewListingReader(r)
	if err != nil {
		return nil, fmt.Errorf("stayprice: %w", err)
	}
	withActual := lr.HasColumn("price")

	cw := csv.NewWriter(w)
	// Rows scored before an early return still reach w.
	defer cw.Flush()
	header := []string{"id", "predicted_price"}
	if withActual {
		header = append(header, "actual_price")
	}
	if withFeatures {
		header = append(header, p.bundle.FeatureColumns...)
	}
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("stayprice: write header: %w", err)
	}

	result := &BatchResult{}
	var absSum, sqSum float64
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rec, err := lr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("stayprice: %w", err)
		}
		result.Rows++

		price, row, err := p.Price(&rec.Input)
		if err != nil {
			result.Failed++
			slog.Warn("Prediction failed", "id", rec.ID, "error", err)
			continue
		}

		line := []string{rec.ID, formatFloat(price)}
		if withActual {
			actual := ""
			if rec.Price != nil {
				actual = formatFloat(*rec.Price)
				diff := price - *rec.Price
				absSum += math.Abs(diff)
				sqSum += diff * diff
				result.Scored++
			}
			line = append(line, actual)
		}
		if withFeatures {
			for _, v := range row.Values {
				line = append(line, formatFloat(v))
			}
		}
		if err := cw.Write(line); err != nil {
			return result, fmt.Errorf("stayprice: write row %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return result, fmt.Errorf("stayprice: %w", err)
	}

	if result.Scored > 0 {
		n := float64(result.Scored)
		result.MAE = absSum / n
		result.RMSE = math.Sqrt(sqSum / n)
	}
	slog.Debug("Batch scored", "rows", result.Rows, "failed", result.Failed, "scored", result.Scored)
	return result, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
