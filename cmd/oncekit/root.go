package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// env holds settings read from the environment.
type env struct {
	DB       string `env:"ONCEKIT_DB,default=oncekit.db"`
	Config   string `env:"ONCEKIT_CONFIG"`
	LogLevel string `env:"ONCEKIT_LOG_LEVEL,default=info"`
}

func loadEnv(ctx context.Context, l envconfig.Lookuper) (env, error) {
	var e env
	if err := envconfig.ProcessWith(ctx, &e, l); err != nil {
		return env{}, fmt.Errorf("read environment: %w", err)
	}
	return e, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	})), nil
}

// app is the state shared by every subcommand, filled in before any of
// them runs.
type app struct {
	env    env
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd(lookuper envconfig.Lookuper) *cobra.Command {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:           "oncekit",
		Short:         "Inspect stored instances and stress-test holders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd.Context(), lookuper)
			if err != nil {
				return err
			}
			if verbose {
				e.LogLevel = "debug"
			}
			logger, err := newLogger(cmd.ErrOrStderr(), e.LogLevel)
			if err != nil {
				return err
			}
			a.env = e
			a.logger = logger
			a.out = cmd.OutOrStdout()
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newStressCmd(a),
		newStoreCmd(a),
		newPoolCmd(a),
	)
	return root
}
