// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbib-fetch/internal/fetch"
	"github.com/pdiddy/nbib-fetch/pkg/types"
)

// envPrefix namespaces configuration environment variables, e.g.
// NBIB_FETCH_SEARCH_API_KEY for search.api_key.
const envPrefix = "NBIB_FETCH"

// bindEnv maps every configuration key to an NBIB_FETCH_* variable.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// bindConfigKeys registers every key of types.Config with v. AutomaticEnv
// only resolves keys viper already knows, so keys without a flag must be
// bound to be settable from the environment. Binding sets no value, so flag
// defaults keep their precedence.
func bindConfigKeys(v *viper.Viper) error {
	var m map[string]any
	if err := mapstructure.Decode(types.DefaultConfig(), &m); err != nil {
		return fmt.Errorf("listing configuration keys: %w", err)
	}
	return bindKeys(v, "", m)
}

func bindKeys(v *viper.Viper, prefix string, m map[string]any) error {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			if err := bindKeys(v, key, sub); err != nil {
				return err
			}
			continue
		}
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// buildConfig overlays flags, environment and config file values from v on
// top of the defaults. Validation happens after secrets are applied.
func buildConfig(v *viper.Viper) (types.Config, error) {
	if err := bindConfigKeys(v); err != nil {
		return types.Config{}, err
	}
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// outputDir resolves the configured output directory. A relative path is
// anchored at BaseDir, or at the executable's directory when BaseDir is empty.
func outputDir(cfg types.Config) (string, error) {
	base := cfg.BaseDir
	if base == "" {
		dir, err := fetch.ExecutableDir()
		if err != nil {
			return "", err
		}
		base = dir
	}
	return fetch.ResolveOutputDir(base, cfg.OutputDir), nil
}
