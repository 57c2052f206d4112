package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/happyhackingspace/stayprice"
	"github.com/happyhackingspace/stayprice/internal/banner"
	"github.com/happyhackingspace/stayprice/internal/config"
	"github.com/spf13/cobra"
)

// CLI encapsulates the command-line interface with its dependencies.
type CLI struct {
	version     string
	verbose     bool
	silent      bool
	configPath  string
	modelPath   string
	initialized bool
	rootCmd     *cobra.Command
}

// New creates a new CLI instance with the given version string.
func New(version string) *CLI {
	c := &CLI{version: version}
	c.setupCommands()
	return c
}

// setupCommands initializes all CLI commands and their configurations.
func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:     "stayprice",
		Short:   "Short-term rental nightly price predictor",
		Version: c.version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.initApp()
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		SilenceUsage: true,
	}

	c.rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose/debug output")
	c.rootCmd.PersistentFlags().BoolVarP(&c.silent, "silent", "s", false, "Suppress all logging and banner")
	c.rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to a YAML or JSON config file")
	c.rootCmd.PersistentFlags().StringVar(&c.modelPath, "model", "", "Path to model bundle or artifact folder (default: auto-detect)")

	defaultHelp := c.rootCmd.HelpFunc()
	c.rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		c.initApp()
		defaultHelp(cmd, args)
	})

	c.rootCmd.AddCommand(c.newPredictCommand())
	c.rootCmd.AddCommand(c.newFeaturesCommand())
	c.rootCmd.AddCommand(c.newImportCommand())
	c.rootCmd.AddCommand(c.newCollectCommand())
	c.rootCmd.AddCommand(c.newBatchCommand())
	c.rootCmd.AddCommand(c.newServeCommand())
	c.rootCmd.AddCommand(c.newModelCommand())
	c.rootCmd.AddCommand(c.newUpCommand())
}

// Run executes the CLI and returns any error. Commands see a context that
// is cancelled on interrupt.
func (c *CLI) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.rootCmd.ExecuteContext(ctx)
}

// initApp initializes logging and prints the banner.
func (c *CLI) initApp() {
	if c.initialized {
		return
	}
	c.initialized = true

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	if c.silent {
		level = slog.Level(100)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	if !c.silent {
		fmt.Fprint(os.Stderr, banner.Banner(c.version))
	}
}

// loadConfig reads the config file (if any) and applies the --model flag.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.modelPath != "" {
		cfg.Model.Path = c.modelPath
	}
	return cfg, nil
}

// loadPredictor builds the predictor described by cfg.
func loadPredictor(cfg *config.Config) (*stayprice.Predictor, error) {
	listingOpts, err := cfg.ListingOptions()
	if err != nil {
		return nil, err
	}
	opts := stayprice.Options{
		Listing:  listingOpts,
		Market:   cfg.Market.Neighbourhoods,
		Fallback: cfg.Market.Fallback,
	}

	if cfg.Model.Path != "" {
		slog.Debug("Loading model", "path", cfg.Model.Path)
		return stayprice.LoadWithOptions(cfg.Model.Path, opts)
	}
	p, err := stayprice.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("%w (use --model or run \"stayprice model download\")", err)
	}
	return p, nil
}
