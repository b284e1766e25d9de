package main

import (
	"github.com/spf13/cobra"
	"github.com/ternarybob/venuescout/internal/services/discovery"
	"github.com/ternarybob/venuescout/internal/services/extraction"
	"github.com/ternarybob/venuescout/internal/services/llm"
	"github.com/ternarybob/venuescout/internal/services/pipeline"
	"github.com/ternarybob/venuescout/internal/services/scraper"
	"github.com/ternarybob/venuescout/internal/services/search"
)

// buildPipeline wires the three automated stages into one service.
func buildPipeline(a *app, cmd *cobra.Command) (*pipeline.Service, func(), error) {
	provider, err := search.NewGeminiService(cmd.Context(), &a.Config.Gemini, a.Logger)
	if err != nil {
		return nil, nil, err
	}

	renderer, err := scraper.NewChromeRenderer(&a.Config.Scraper, a.Logger)
	if err != nil {
		return nil, nil, err
	}

	claude, err := llm.NewClaudeService(&a.Config.Claude, a.Logger)
	if err != nil {
		renderer.Close()
		return nil, nil, err
	}

	queue := a.Storage.QueueStorage()
	svc := pipeline.NewService(
		discovery.NewService(&a.Config.Discovery, provider, queue, a.Logger),
		scraper.NewService(&a.Config.Scraper, renderer, queue, a.Logger),
		extraction.NewService(&a.Config.Extraction, claude, queue, a.Logger),
		queue,
		a.Logger,
	)

	cleanup := func() {
		renderer.Close()
		claude.Close()
	}
	return svc, cleanup, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline once: discover, scrape, extract",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			svc, cleanup, err := buildPipeline(a, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			if stats.Queue != nil {
				a.Logger.Info().
					Int("awaiting_review", stats.Queue.Review).
					Int("published", stats.Queue.Published).
					Int("failed", stats.Queue.Failed).
					Msg("Queue after run")
			}
			return nil
		},
	}
}
