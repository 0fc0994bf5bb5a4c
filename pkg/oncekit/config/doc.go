/*
Package config provides type-safe configuration extraction from map[string]any.

Holders read their tuning from it: backend pools for fixed registries,
retry settings for construction, storage locations for cluster singletons,
and constructor parameters for parameterized singletons.

# Basic Usage

	cfg, err := config.FromFile("oncekit.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	backends := cfg.StringMap("backends", nil)
	retryCfg := cfg.Sub("retry")
	attempts := retryCfg.Int("max_attempts", 3)

FromFile picks the parser from the extension: .yaml/.yml, .json or .toml.

All accessors return the default value if the key is missing, the value
cannot be converted, or the conversion would lose precision.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
