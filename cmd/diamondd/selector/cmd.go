// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package selector

import (
	"github.com/spf13/cobra"

	"github.com/luxfi/diamond/abi"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>...",
		Short: "Prints the selector of each function signature",
		Args:  cobra.MinimumNArgs(1),
		Run: func(c *cobra.Command, args []string) {
			for _, sig := range args {
				c.Printf("%s %s\n", abi.NewSelector(sig), sig)
			}
		},
	}
}
