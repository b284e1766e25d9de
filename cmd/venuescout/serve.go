package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/venuescout/internal/handlers"
	"github.com/ternarybob/venuescout/internal/server"
	"github.com/ternarybob/venuescout/internal/services/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server (with scheduled pipeline runs when enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			// The scheduler (and the browser and API clients behind it) is
			// only brought up when scheduled runs are configured.
			var scheduler *pipeline.Scheduler
			if a.Config.Schedule.Enabled {
				svc, cleanup, err := buildPipeline(a, cmd)
				if err != nil {
					return err
				}
				defer cleanup()

				scheduler = pipeline.NewScheduler(svc, a.Logger)
				if err := scheduler.Start(a.Config.Schedule.Cron); err != nil {
					return fmt.Errorf("failed to start scheduler: %w", err)
				}
				defer scheduler.Stop()
			}

			queue := a.Storage.QueueStorage()
			srv := server.New(&a.Config.Server, a.Logger,
				handlers.NewQueueHandler(queue, a.Logger),
				handlers.NewReviewHandler(newReviewService(a), a.Logger),
				handlers.NewVenueHandler(a.Storage.VenueStorage(), a.Logger),
				handlers.NewStatusHandler(a.Storage, scheduler, a.Logger),
			)

			go func() {
				if err := srv.Start(); err != nil {
					a.Logger.Fatal().Err(err).Msg("Server failed to start")
				}
			}()

			a.Logger.Info().
				Str("url", fmt.Sprintf("http://%s:%d", a.Config.Server.Host, a.Config.Server.Port)).
				Msg("Server ready - Press Ctrl+C to stop")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan
			a.Logger.Info().Msg("Interrupt signal received")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}
