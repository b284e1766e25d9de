package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venuescout/internal/common"
	"github.com/ternarybob/venuescout/internal/interfaces"
	"github.com/ternarybob/venuescout/internal/storage/badger"
)

var (
	// cfgFiles holds the --config flags; later files override earlier ones
	cfgFiles []string

	rootCmd = &cobra.Command{
		Use:   "venuescout",
		Short: "Children's party venue directory pipeline",
		Long: `VenueScout discovers candidate party venue websites, scrapes and
extracts their details, and publishes reviewed venues to a directory.

The pipeline stages (discover, scrape, extract) run automatically; review
and publish decisions stay with a human operator.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&cfgFiles, "config", "c", nil,
		"configuration file (repeatable, later files override earlier ones; default ./venuescout.toml)")

	rootCmd.AddCommand(newDiscoverCmd())
	rootCmd.AddCommand(newScrapeCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// app bundles the pieces every command needs: resolved config, logger,
// and an open storage manager.
type app struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Storage interfaces.StorageManager
}

// newApp performs the startup sequence: load config, initialize the
// logger, print the banner, open storage.
func newApp() (*app, error) {
	paths := cfgFiles
	if len(paths) == 0 {
		if _, err := os.Stat("venuescout.toml"); err == nil {
			paths = []string{"venuescout.toml"}
		}
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	storage, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &app{
		Config:  config,
		Logger:  logger,
		Storage: storage,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if err := a.Storage.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Storage close failed")
	}
}
