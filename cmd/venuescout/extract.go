package main

import (
	"github.com/spf13/cobra"
	"github.com/ternarybob/venuescout/internal/services/extraction"
	"github.com/ternarybob/venuescout/internal/services/llm"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract structured venue data from scraped pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			claude, err := llm.NewClaudeService(&a.Config.Claude, a.Logger)
			if err != nil {
				return err
			}
			defer claude.Close()

			svc := extraction.NewService(&a.Config.Extraction, claude, a.Storage.QueueStorage(), a.Logger)
			result, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			a.Logger.Info().
				Int("review", result.Review).
				Int("failed", result.Failed).
				Int("skipped", result.Skipped).
				Msg("Extraction finished")
			return nil
		},
	}
}
