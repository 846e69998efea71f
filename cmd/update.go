package cmd

import (
	"context"
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/fetchr/config"
)

const defaultRepository = "s0up4200/fetchr"

var checkOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update fetchr to the latest release",
	Long:  `Check GitHub releases for a newer version of fetchr and replace the running binary with it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadDotEnv()

		// a broken or missing config must not block updating
		if loaded, err := config.Load(cfgFile); err == nil {
			cfg = loaded
			logger = setupLogger(cfg.Logging)
			return nil
		}
		logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
		return nil
	},
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check for a newer version")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a %s build, install a release instead", version)
	}

	repository := defaultRepository
	if cfg != nil && cfg.Update.Repository != "" {
		repository = cfg.Update.Repository
	}

	ctx := context.Background()

	logger.Debug().Str("repository", repository).Str("current", current.String()).Msg("Checking for updates")

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return fmt.Errorf("failed to detect latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repository)
	}

	latestVersion, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("invalid release version %q: %w", latest.Version(), err)
	}

	if latestVersion.LTE(current) {
		fmt.Printf("✓ fetchr %s is the latest version\n", current)
		return nil
	}

	fmt.Printf("New version available: %s (current %s)\n", latestVersion, current)
	if checkOnly {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Printf("✓ Updated to %s\n", latestVersion)
	return nil
}
