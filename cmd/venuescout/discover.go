package main

import (
	"github.com/spf13/cobra"
	"github.com/ternarybob/venuescout/internal/services/discovery"
	"github.com/ternarybob/venuescout/internal/services/search"
)

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Run search queries and enqueue candidate venue URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			provider, err := search.NewGeminiService(cmd.Context(), &a.Config.Gemini, a.Logger)
			if err != nil {
				return err
			}

			svc := discovery.NewService(&a.Config.Discovery, provider, a.Storage.QueueStorage(), a.Logger)
			result, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			a.Logger.Info().
				Int("enqueued", result.Enqueued).
				Int("duplicates", result.Duplicates).
				Int("denied", result.Denied).
				Int("queries_failed", result.QueriesFailed).
				Msg("Discovery finished")
			return nil
		},
	}
}
