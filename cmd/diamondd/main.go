// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/version"
	"github.com/spf13/cobra"

	"github.com/luxfi/diamond/cmd/diamondd/run"
	"github.com/luxfi/diamond/cmd/diamondd/selector"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	cmd := &cobra.Command{
		Use:   "diamondd",
		Short: "Runs and inspects upgradeable diamond tokens",
	}
	cmd.AddCommand(
		run.Command(),
		selector.Command(),
		&cobra.Command{
			Use:   "version",
			Short: "Prints the version",
			Run: func(c *cobra.Command, _ []string) {
				c.Println(version.Current.String())
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
