package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/venuescout/internal/common"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("venuescout %s\n", common.GetFullVersion())
		},
	}
}
