package main

import (
	"github.com/spf13/cobra"
	"github.com/ternarybob/venuescout/internal/services/scraper"
)

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Render pending queue items and capture their page content",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			renderer, err := scraper.NewChromeRenderer(&a.Config.Scraper, a.Logger)
			if err != nil {
				return err
			}
			defer renderer.Close()

			svc := scraper.NewService(&a.Config.Scraper, renderer, a.Storage.QueueStorage(), a.Logger)
			result, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			a.Logger.Info().
				Int("scraped", result.Scraped).
				Int("failed", result.Failed).
				Int("skipped", result.Skipped).
				Msg("Scrape finished")
			return nil
		},
	}
}
