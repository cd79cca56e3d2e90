// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/luxfi/geth/common"
)

var errInvalidAddress = errors.New("invalid hex address")

type fileConfig struct {
	HTTPAddress       string           `toml:"http_address"`
	AllowedOrigins    []string         `toml:"allowed_origins"`
	ReadHeaderTimeout string           `toml:"read_header_timeout"`
	ShutdownTimeout   string           `toml:"shutdown_timeout"`
	Logging           bool             `toml:"logging"`
	DeploymentFile    string           `toml:"deployment_file"`
	Deployer          string           `toml:"deployer"`
	Allocations       []fileAllocation `toml:"allocations"`
	Genesis           fileGenesis      `toml:"genesis"`
	MultiSig          fileMultiSig     `toml:"multisig"`
}

type fileAllocation struct {
	Address string `toml:"address"`
	Amount  string `toml:"amount"`
}

type fileGenesis struct {
	Name            string `toml:"name"`
	Symbol          string `toml:"symbol"`
	InitialSupply   string `toml:"initial_supply"`
	TokenPrice      string `toml:"token_price"`
	Description     string `toml:"description"`
	ExternalURL     string `toml:"external_url"`
	BackgroundColor string `toml:"background_color"`
}

type fileMultiSig struct {
	Owners    []string `toml:"owners"`
	Threshold int64    `toml:"threshold"`
}

func loadTOML(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if meta.IsDefined("http_address") {
		cfg.HTTPAddress = strings.TrimSpace(raw.HTTPAddress)
	}
	if meta.IsDefined("allowed_origins") {
		cfg.AllowedOrigins = raw.AllowedOrigins
	}
	if meta.IsDefined("read_header_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadHeaderTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse read_header_timeout: %w", err)
		}
		cfg.ReadHeaderTimeout = d
	}
	if meta.IsDefined("shutdown_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if meta.IsDefined("logging") {
		cfg.Logging = raw.Logging
	}
	if meta.IsDefined("deployment_file") {
		cfg.DeploymentFile = strings.TrimSpace(raw.DeploymentFile)
	}
	if meta.IsDefined("deployer") {
		addr, err := parseAddress(raw.Deployer)
		if err != nil {
			return Config{}, fmt.Errorf("parse deployer: %w", err)
		}
		cfg.Deployer = addr
	}
	if meta.IsDefined("allocations") {
		cfg.Allocations = make([]Allocation, 0, len(raw.Allocations))
		for i, a := range raw.Allocations {
			addr, err := parseAddress(a.Address)
			if err != nil {
				return Config{}, fmt.Errorf("parse allocation %d: %w", i, err)
			}
			cfg.Allocations = append(cfg.Allocations, Allocation{
				Address: addr,
				Amount:  strings.TrimSpace(a.Amount),
			})
		}
	}

	g := &cfg.Genesis
	overlay := []struct {
		key string
		dst *string
		src string
	}{
		{"name", &g.Name, raw.Genesis.Name},
		{"symbol", &g.Symbol, raw.Genesis.Symbol},
		{"initial_supply", &g.InitialSupply, raw.Genesis.InitialSupply},
		{"token_price", &g.TokenPrice, raw.Genesis.TokenPrice},
		{"description", &g.Description, raw.Genesis.Description},
		{"external_url", &g.ExternalURL, raw.Genesis.ExternalURL},
		{"background_color", &g.BackgroundColor, raw.Genesis.BackgroundColor},
	}
	for _, o := range overlay {
		if meta.IsDefined("genesis", o.key) {
			*o.dst = o.src
		}
	}

	if meta.IsDefined("multisig", "owners") {
		cfg.MultiSig.Owners = make([]common.Address, 0, len(raw.MultiSig.Owners))
		for i, s := range raw.MultiSig.Owners {
			addr, err := parseAddress(s)
			if err != nil {
				return Config{}, fmt.Errorf("parse multisig owner %d: %w", i, err)
			}
			cfg.MultiSig.Owners = append(cfg.MultiSig.Owners, addr)
		}
	}
	if meta.IsDefined("multisig", "threshold") {
		if raw.MultiSig.Threshold < 0 {
			return Config{}, fmt.Errorf("%w: %d", errInvalidThreshold, raw.MultiSig.Threshold)
		}
		cfg.MultiSig.Threshold = uint64(raw.MultiSig.Threshold)
	}
	return cfg, nil
}

func parseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", errInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}
