// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the configuration of a diamondd node.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/math/set"

	"github.com/luxfi/diamond/facets/initializer"
	"github.com/luxfi/diamond/facets/tokenuri"
	"github.com/luxfi/diamond/utils/units"
)

var (
	errMissingHTTPAddress   = errors.New("http address is required")
	errInvalidTimeout       = errors.New("timeouts must be positive")
	errZeroDeployer         = errors.New("deployer address is required")
	errMissingToken         = errors.New("token name and symbol are required")
	errInvalidAmount        = errors.New("amount must be a decimal integer")
	errZeroPrice            = errors.New("token price must be greater than zero")
	errInvalidColor         = errors.New("background colour must be six hex digits")
	errInvalidThreshold     = errors.New("multisig threshold must be between 1 and the number of owners")
	errThresholdNoOwners    = errors.New("multisig threshold set without owners")
	errZeroMultiSigOwner    = errors.New("multisig owner must be non-zero")
	errDuplicateMultiSigOwn = errors.New("duplicate multisig owner")
	errZeroAllocation       = errors.New("allocation address must be non-zero")
)

// Config contains the parameters of a diamondd node.
type Config struct {
	// HTTPAddress is where the JSON-RPC API listens
	HTTPAddress string `json:"httpAddress"`
	// AllowedOrigins are the CORS origins accepted by the API
	AllowedOrigins    []string      `json:"allowedOrigins"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`
	// Logging disables every log line when false
	Logging bool `json:"logging"`
	// DeploymentFile, when set, receives the deployed addresses as JSON
	DeploymentFile string `json:"deploymentFile"`

	// Deployer deploys the facets and becomes the contract owner
	Deployer    common.Address `json:"deployer"`
	Allocations []Allocation   `json:"allocations"`
	Genesis     Genesis        `json:"genesis"`
	MultiSig    MultiSig       `json:"multisig"`
}

// Allocation funds an account with native value before deployment.
type Allocation struct {
	Address common.Address `json:"address"`
	// Amount in wei, as a decimal string
	Amount string `json:"amount"`
}

// Genesis holds the arguments of the one-shot initializer. Amounts are
// decimal wei strings so they survive JSON and TOML unchanged.
type Genesis struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	InitialSupply   string `json:"initialSupply"`
	TokenPrice      string `json:"tokenPrice"`
	Description     string `json:"description"`
	ExternalURL     string `json:"externalUrl"`
	BackgroundColor string `json:"backgroundColor"`
}

// MultiSig is installed right after deployment when Owners is non-empty.
type MultiSig struct {
	Owners    []common.Address `json:"owners"`
	Threshold uint64           `json:"threshold"`
}

// DefaultConfig returns the default configuration: the BLL token owned by
// the local development account.
func DefaultConfig() Config {
	return Config{
		HTTPAddress:       "127.0.0.1:9650",
		AllowedOrigins:    []string{"*"},
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		Logging:           true,

		Deployer: common.HexToAddress("0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"),
		Allocations: []Allocation{{
			Address: common.HexToAddress("0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"),
			Amount:  units.Ethers(1_000).Dec(),
		}},
		Genesis: Genesis{
			Name:            "BLL Token",
			Symbol:          "BLL",
			InitialSupply:   units.Ethers(1_000_000).Dec(),
			TokenPrice:      units.Amount(1, units.Milliether).Dec(),
			Description:     "BLL Token - A fully upgradeable diamond proxy ERC20 token with swap, multisig, and onchain SVG capabilities",
			ExternalURL:     "https://bll-token.example.com",
			BackgroundColor: "667eea",
		},
	}
}

// Load reads the file at path over DefaultConfig and verifies the result.
// Files ending in .toml are TOML, anything else is JSON. Keys absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = loadTOML(path)
	} else {
		cfg, err = loadJSON(path)
	}
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Verify(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func loadJSON(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Verify reports the first problem with c.
func (c *Config) Verify() error {
	switch {
	case strings.TrimSpace(c.HTTPAddress) == "":
		return errMissingHTTPAddress
	case c.ReadHeaderTimeout <= 0 || c.ShutdownTimeout <= 0:
		return errInvalidTimeout
	case c.Deployer == (common.Address{}):
		return errZeroDeployer
	}
	for i, a := range c.Allocations {
		if a.Address == (common.Address{}) {
			return fmt.Errorf("allocation %d: %w", i, errZeroAllocation)
		}
		if _, err := parseAmount(a.Amount); err != nil {
			return fmt.Errorf("allocation %d: %w", i, err)
		}
	}
	if _, err := c.Genesis.Args(); err != nil {
		return fmt.Errorf("genesis: %w", err)
	}
	return c.MultiSig.verify()
}

// Args converts g into initializer arguments.
func (g *Genesis) Args() (*initializer.Args, error) {
	if g.Name == "" || g.Symbol == "" {
		return nil, errMissingToken
	}
	supply, err := parseAmount(g.InitialSupply)
	if err != nil {
		return nil, fmt.Errorf("initial supply: %w", err)
	}
	price, err := parseAmount(g.TokenPrice)
	if err != nil {
		return nil, fmt.Errorf("token price: %w", err)
	}
	if price.IsZero() {
		return nil, errZeroPrice
	}
	if !tokenuri.ValidColor(g.BackgroundColor) {
		return nil, fmt.Errorf("%w: %q", errInvalidColor, g.BackgroundColor)
	}
	return &initializer.Args{
		Name:            g.Name,
		Symbol:          g.Symbol,
		InitialSupply:   supply,
		TokenPrice:      price,
		Description:     g.Description,
		ExternalURL:     g.ExternalURL,
		BackgroundColor: g.BackgroundColor,
	}, nil
}

// Balance returns the parsed amount of a.
func (a *Allocation) Balance() (*uint256.Int, error) {
	return parseAmount(a.Amount)
}

func (m *MultiSig) verify() error {
	if len(m.Owners) == 0 {
		if m.Threshold != 0 {
			return errThresholdNoOwners
		}
		return nil
	}
	if m.Threshold == 0 || m.Threshold > uint64(len(m.Owners)) {
		return fmt.Errorf("%w: %d of %d", errInvalidThreshold, m.Threshold, len(m.Owners))
	}
	seen := set.NewSet[common.Address](len(m.Owners))
	for _, owner := range m.Owners {
		if owner == (common.Address{}) {
			return errZeroMultiSigOwner
		}
		if seen.Contains(owner) {
			return fmt.Errorf("%w: %s", errDuplicateMultiSigOwn, owner)
		}
		seen.Add(owner)
	}
	return nil
}

func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errInvalidAmount, s)
	}
	return v, nil
}
