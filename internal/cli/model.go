package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/happyhackingspace/stayprice"
	"github.com/happyhackingspace/stayprice/internal/storage"
	"github.com/spf13/cobra"
)

const modelURL = "https://huggingface.co/datasets/happyhackingspace/stayprice/resolve/main/model.json"

func (c *CLI) newModelCommand() *cobra.Command {
	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Download or inspect the model bundle",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var url string
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download the model bundle into the user cache",
		Args:  cobra.NoArgs,
		Example: `  stayprice model download
  stayprice model download --url https://example.com/bristol/model.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := filepath.Join(stayprice.ModelDir(), storage.BundleFile)
			if _, err := downloadModel(url, dest); err != nil {
				return err
			}
			// Refuse to leave a file behind that cannot be loaded.
			if _, err := stayprice.Load(dest); err != nil {
				_ = os.Remove(dest)
				return err
			}
			fmt.Println(dest)
			return nil
		},
	}
	downloadCmd.Flags().StringVar(&url, "url", modelURL, "Model bundle URL")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print the metadata and feature columns of the model",
		Args:  cobra.NoArgs,
		Example: `  stayprice model info
  stayprice model info --model models/manchester`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			p, err := loadPredictor(cfg)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"metadata": p.Metadata(),
				"columns":  p.Columns(),
				"defaults": p.Defaults(),
			})
		},
	}

	modelCmd.AddCommand(downloadCmd, infoCmd)
	return modelCmd
}

// downloadModel fetches url into dest and returns the number of bytes
// written. A failed download leaves no file behind.
func downloadModel(url, dest string) (int64, error) {
	slog.Info("Downloading model", "url", url, "dest", dest)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("create model dir: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return 0, fmt.Errorf("download model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download model: HTTP %d", resp.StatusCode)
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create model file: %w", err)
	}
	written, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("download model: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}

	slog.Info("Model downloaded", "size", fmt.Sprintf("%.1fMB", float64(written)/1024/1024))
	return written, nil
}
