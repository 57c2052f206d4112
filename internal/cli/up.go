package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/happyhackingspace/stayprice"
	"github.com/happyhackingspace/stayprice/internal/storage"
	"github.com/spf13/cobra"
)

const releaseRepo = "happyhackingspace/stayprice"

func (c *CLI) newUpCommand() *cobra.Command {
	var check, skipModel bool

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Update stayprice and the cached model bundle",
		Example: `  stayprice up
  stayprice up --check
  stayprice up --skip-model`,
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.upgradeBinary(cmd.Context(), check)
			if err != nil || check || skipModel {
				return err
			}
			if !updated {
				return nil
			}
			dest := filepath.Join(stayprice.ModelDir(), storage.BundleFile)
			refreshed, err := refreshCachedModel(modelURL, dest)
			switch {
			case err != nil:
				slog.Warn("Cached model left as is", "path", dest, "error", err)
			case refreshed:
				fmt.Printf("Refreshed model bundle at %s\n", dest)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Only report whether a newer release exists")
	cmd.Flags().BoolVar(&skipModel, "skip-model", false, "Do not refresh the cached model bundle")
	return cmd
}

// upgradeBinary replaces the running executable with the newest release.
// It reports whether a newer release was found and, unless dryRun is set,
// installed.
func (c *CLI) upgradeBinary(ctx context.Context, dryRun bool) (bool, error) {
	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return false, err
	}
	release, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepo))
	if err != nil {
		return false, fmt.Errorf("look up releases of %s: %w", releaseRepo, err)
	}
	if !found {
		return false, errors.New("no stayprice release for this platform")
	}

	current := releaseVersion(c.version)
	if release.LessOrEqual(current) {
		fmt.Printf("stayprice %s is the latest release\n", c.version)
		return false, nil
	}
	if dryRun {
		fmt.Printf("stayprice %s is available (running %s)\n", release.Version(), c.version)
		return true, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return false, err
	}
	slog.Info("Installing release", "version", release.Version(), "path", exe)
	if err := updater.UpdateTo(ctx, release, exe); err != nil {
		return false, fmt.Errorf("install %s: %w", release.Version(), err)
	}
	fmt.Printf("stayprice upgraded %s -> %s\n", c.version, release.Version())
	return true, nil
}

// releaseVersion turns a build version into a comparable semver string.
// Development builds compare lower than every release.
func releaseVersion(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" || v == "dev" {
		return "0.0.0"
	}
	return v
}

// refreshCachedModel re-downloads the bundle at dest from url. Nothing is
// fetched unless a bundle is already cached there.
func refreshCachedModel(url, dest string) (bool, error) {
	if _, err := os.Stat(dest); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := downloadModel(url, dest); err != nil {
		return false, err
	}
	return true, nil
}
