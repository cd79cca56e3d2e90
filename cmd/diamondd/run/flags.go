// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package run

import (
	"github.com/spf13/pflag"

	"github.com/luxfi/diamond/config"
)

const (
	ConfigFileKey  = "config-file"
	HTTPAddressKey = "http-address"
	LoggingKey     = "logging"
	DeploymentKey  = "deployment-file"
)

func AddFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultConfig()
	flags.String(ConfigFileKey, "", "JSON or TOML config file (optional)")
	flags.String(HTTPAddressKey, defaults.HTTPAddress, "Address the API listens on")
	flags.Bool(LoggingKey, defaults.Logging, "Whether to log")
	flags.String(DeploymentKey, defaults.DeploymentFile, "File the deployed addresses are written to (optional)")
}

// ParseFlags loads the config file, if any, and applies the flags that were
// set explicitly on top of it.
func ParseFlags(flags *pflag.FlagSet, args []string) (config.Config, error) {
	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}

	path, err := flags.GetString(ConfigFileKey)
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.DefaultConfig()
	if path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	if flags.Changed(HTTPAddressKey) {
		cfg.HTTPAddress, err = flags.GetString(HTTPAddressKey)
		if err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed(LoggingKey) {
		cfg.Logging, err = flags.GetBool(LoggingKey)
		if err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed(DeploymentKey) {
		cfg.DeploymentFile, err = flags.GetString(DeploymentKey)
		if err != nil {
			return config.Config{}, err
		}
	}
	return cfg, cfg.Verify()
}
