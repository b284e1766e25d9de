package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue and directory counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			stats, err := a.Storage.QueueStorage().Stats(ctx)
			if err != nil {
				return err
			}
			venues, err := a.Storage.VenueStorage().CountVenues(ctx)
			if err != nil {
				return err
			}
			packages, err := a.Storage.VenueStorage().CountPackages(ctx)
			if err != nil {
				return err
			}

			fmt.Println("Queue:")
			fmt.Printf("  pending     %d\n", stats.Pending)
			fmt.Printf("  processing  %d\n", stats.Processing)
			fmt.Printf("  scraped     %d\n", stats.Scraped)
			fmt.Printf("  review      %d\n", stats.Review)
			fmt.Printf("  published   %d\n", stats.Published)
			fmt.Printf("  rejected    %d\n", stats.Rejected)
			fmt.Printf("  failed      %d\n", stats.Failed)
			fmt.Printf("  total       %d\n", stats.Total)
			fmt.Println("Directory:")
			fmt.Printf("  venues      %d\n", venues)
			fmt.Printf("  packages    %d\n", packages)
			return nil
		},
	}
}
