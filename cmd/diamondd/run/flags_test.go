// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/diamond/config"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	AddFlags(flags)
	return flags
}

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags(newFlags(), nil)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestParseFlagsOverrideFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(os.WriteFile(path, []byte("http_address = \"127.0.0.1:1\"\nlogging = false\n"), 0o600))

	cfg, err := ParseFlags(newFlags(), []string{
		"--config-file", path,
		"--http-address", "127.0.0.1:2",
		"--deployment-file", "bll.json",
	})
	require.NoError(err)
	require.Equal("127.0.0.1:2", cfg.HTTPAddress)
	require.False(cfg.Logging)
	require.Equal("bll.json", cfg.DeploymentFile)
}
