package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/oncekit/pkg/oncekit"
	"github.com/randalmurphal/oncekit/pkg/oncekit/config"
	"github.com/randalmurphal/oncekit/pkg/oncekit/registry"
)

func newPoolCmd(a *app) *cobra.Command {
	var (
		path  string
		picks int
	)

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Build a fixed backend pool from config and sample it",
		Long: `Reads a "servers" mapping (YAML, JSON or TOML) and builds one instance per
entry, then prints how often each server is picked at random.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = a.env.Config
			}
			if path == "" {
				return errors.New("no config file: pass --config or set ONCEKIT_CONFIG")
			}

			cfg, err := config.FromFile(path)
			if err != nil {
				return err
			}
			pool, err := loadPool(cfg, oncekit.WithName("pool"), oncekit.WithLogger(a.logger))
			if err != nil {
				return err
			}

			counts := make(map[string]int, pool.Len())
			for range picks {
				addr, err := pool.GetRandom()
				if err != nil {
					return err
				}
				counts[addr]++
			}

			for _, key := range pool.Keys() {
				addr, _ := pool.Get(key)
				fmt.Fprintf(a.out, "%-4s %-24s %d\n", key, addr, counts[addr])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "config file (default $ONCEKIT_CONFIG)")
	cmd.Flags().IntVarP(&picks, "picks", "p", 30, "random picks to sample")
	return cmd
}

// loadPool builds a fixed pool from the "servers" section of cfg, keyed in
// sorted order.
func loadPool(cfg config.Config, opts ...oncekit.Option) (*registry.Fixed[string, string], error) {
	servers := cfg.StringMap("servers", nil)
	if len(servers) == 0 {
		return nil, errors.New(`config has no "servers" entries`)
	}

	keys := make([]string, 0, len(servers))
	for k := range servers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return registry.NewFixedFrom(keys, func(k string) (string, error) {
		addr := servers[k]
		if addr == "" {
			return "", fmt.Errorf("server %s has no address", k)
		}
		return addr, nil
	}, opts...)
}
