// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"net"

	"github.com/luxfi/log"
	"github.com/spf13/cobra"

	"github.com/luxfi/diamond/node"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Deploys the configured diamond and serves its API",
		RunE:  runFunc,
	}
	AddFlags(c.Flags())
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	cfg, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}

	logger := log.NewNoOpLogger()
	if cfg.Logging {
		logger = log.NewLogger("diamondd")
	}

	listener, err := net.Listen("tcp", cfg.HTTPAddress)
	if err != nil {
		return err
	}
	n, err := node.New(c.Context(), cfg, logger, listener)
	if err != nil {
		_ = listener.Close()
		return err
	}
	return n.Run(c.Context())
}
