// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node runs a diamond deployed on an in-memory host behind the
// JSON-RPC API.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/google/renameio/v2"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/api"
	"github.com/luxfi/diamond/api/health"
	"github.com/luxfi/diamond/api/server"
	"github.com/luxfi/diamond/client"
	"github.com/luxfi/diamond/config"
	"github.com/luxfi/diamond/deploy"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/metrics"
)

const (
	rpcEndpoint     = "diamond"
	healthEndpoint  = "health"
	metricsEndpoint = "metrics"

	tracerName = "github.com/luxfi/diamond"
)

type Node struct {
	Config     config.Config
	Log        log.Logger
	Host       *engine.Host
	Client     *client.Client
	Deployment *deploy.Deployment

	registry *prometheus.Registry
	server   server.Server
}

// New deploys the configured diamond and prepares the API on listener.
func New(ctx context.Context, cfg config.Config, logger log.Logger, listener net.Listener) (*Node, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	args, err := cfg.Genesis.Args()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	var chainID ids.ID
	copy(chainID[:], abi.Keccak256([]byte(cfg.Genesis.Symbol), cfg.Deployer[:]))
	host := engine.NewHost(chainID, memdb.New(), logger, m)

	for _, a := range cfg.Allocations {
		amount, err := a.Balance()
		if err != nil {
			return nil, err
		}
		if err := host.Fund(ctx, a.Address, amount); err != nil {
			return nil, fmt.Errorf("funding %s: %w", a.Address, err)
		}
	}

	d, err := deploy.Diamond(ctx, host, cfg.Deployer, args)
	if err != nil {
		return nil, err
	}
	c := client.New(host, d.Diamond)

	if cfg.DeploymentFile != "" {
		if err := writeDeployment(cfg.DeploymentFile, d); err != nil {
			return nil, err
		}
	}

	if len(cfg.MultiSig.Owners) != 0 {
		if _, err := c.InitializeMultiSig(ctx, cfg.Deployer, cfg.MultiSig.Owners, cfg.MultiSig.Threshold); err != nil {
			return nil, fmt.Errorf("initializing multisig: %w", err)
		}
	}

	h, err := health.New(logger, registry)
	if err != nil {
		return nil, fmt.Errorf("registering health metrics: %w", err)
	}
	if err := h.Register("diamond", health.CheckerFunc(api.ConsistencyCheck(c))); err != nil {
		return nil, err
	}

	rpcHandler, err := api.NewHandler(api.NewService(logger, c, h), m)
	if err != nil {
		return nil, err
	}

	srv, err := server.New(
		logger,
		listener,
		cfg.AllowedOrigins,
		cfg.ShutdownTimeout,
		registry,
		otel.Tracer(tracerName),
		server.HTTPConfig{ReadHeaderTimeout: cfg.ReadHeaderTimeout},
	)
	if err != nil {
		return nil, err
	}
	errs := []error{
		srv.AddRoute(rpcHandler, rpcEndpoint),
		srv.AddRoute(h, healthEndpoint),
		srv.AddRoute(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metricsEndpoint),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	logger.Info("diamond node ready",
		log.Stringer("diamond", d.Diamond),
		log.Stringer("owner", cfg.Deployer),
		log.String("address", listener.Addr().String()),
	)
	return &Node{
		Config:     cfg,
		Log:        logger,
		Host:       host,
		Client:     c,
		Deployment: d,
		registry:   registry,
		server:     srv,
	}, nil
}

// Dispatch serves the API until Shutdown is called.
func (n *Node) Dispatch() error {
	return n.server.Dispatch()
}

func (n *Node) Shutdown() error {
	n.Log.Info("shutting down diamond node")
	return n.server.Shutdown()
}

// Run serves until ctx is cancelled or the server fails.
func (n *Node) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(n.Dispatch)
	g.Go(func() error {
		<-ctx.Done()
		return n.Shutdown()
	})
	return g.Wait()
}

// writeDeployment replaces path atomically so readers never see a partial
// file.
func writeDeployment(path string, d *deploy.Deployment) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing deployment to %s: %w", path, err)
	}
	return nil
}
