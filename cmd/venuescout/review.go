package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/venuescout/internal/services/review"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and decide on extractions awaiting review",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newReviewListCmd())
	cmd.AddCommand(newReviewApproveCmd())
	cmd.AddCommand(newReviewRejectCmd())
	return cmd
}

func newReviewService(a *app) *review.Service {
	return review.NewService(&a.Config.Review, a.Storage.QueueStorage(), a.Storage.VenueStorage(), a.Logger)
}

func newReviewListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items awaiting review, highest confidence first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			pending, err := newReviewService(a).ListPending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("No items awaiting review")
				return nil
			}

			for _, p := range pending {
				confidence := 0.0
				if p.Item.Confidence != nil {
					confidence = *p.Item.Confidence
				}
				name := ""
				if p.Item.ExtractedData != nil && p.Item.ExtractedData.Venue != nil {
					name = p.Item.ExtractedData.Venue.Name
				}
				flag := ""
				if p.LowConfidence {
					flag = "  [low confidence]"
				}
				fmt.Printf("%s  %.2f  %-40s %s%s\n", p.Item.ID, confidence, name, p.Item.URL, flag)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum items to list (0 = all)")
	return cmd
}

func newReviewApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <item-id>",
		Short: "Approve an item and publish its venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			venue, err := newReviewService(a).Approve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Published %s (slug: %s)\n", venue.Name, venue.Slug)
			return nil
		},
	}
}

func newReviewRejectCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <item-id>",
		Short: "Reject an item with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(reason) == "" {
				return fmt.Errorf("--reason is required")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := newReviewService(a).Reject(cmd.Context(), args[0], reason); err != nil {
				return err
			}

			fmt.Println("Item rejected")
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the extraction is being rejected")
	return cmd
}
