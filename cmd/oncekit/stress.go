package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/randalmurphal/oncekit/pkg/oncekit"
	"github.com/randalmurphal/oncekit/pkg/oncekit/concurrent"
	"github.com/randalmurphal/oncekit/pkg/oncekit/observability"
	"github.com/randalmurphal/oncekit/pkg/oncekit/registry"
)

type stressOptions struct {
	goroutines int
	rounds     int
	keys       int
	policy     oncekit.Policy
}

type stressResult struct {
	Constructions int64
	Expected      int64
	Waits         uint64
}

// probe is the instance constructed under contention.
type probe struct {
	seq int64
}

func newStressCmd(a *app) *cobra.Command {
	var (
		opts   stressOptions
		policy string
	)

	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Release goroutines together on fresh holders and verify one construction each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := oncekit.ParsePolicy(policy)
			if err != nil {
				return err
			}
			opts.policy = p

			reader := sdkmetric.NewManualReader()
			provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			defer func() { _ = provider.Shutdown(context.Background()) }()

			metrics, err := observability.NewMetricsRecorderWithProvider(provider)
			if err != nil {
				return err
			}

			res, err := runStress(cmd.Context(), opts, a.logger, metrics)
			if err != nil {
				return err
			}

			var rm metricdata.ResourceMetrics
			if err := reader.Collect(cmd.Context(), &rm); err != nil {
				return fmt.Errorf("collect metrics: %w", err)
			}
			res.Waits = waitCount(&rm)

			fmt.Fprintf(a.out, "policy:        %s\n", opts.policy)
			fmt.Fprintf(a.out, "goroutines:    %d\n", opts.goroutines)
			fmt.Fprintf(a.out, "rounds:        %d\n", opts.rounds)
			fmt.Fprintf(a.out, "constructions: %d (expected %d)\n", res.Constructions, res.Expected)
			fmt.Fprintf(a.out, "blocked waits: %d\n", res.Waits)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.goroutines, "goroutines", "n", 100, "goroutines released per round")
	cmd.Flags().IntVarP(&opts.rounds, "rounds", "r", 1, "rounds, each on fresh holders")
	cmd.Flags().IntVarP(&opts.keys, "keys", "k", 0, "spread goroutines over a keyed registry with this many keys")
	cmd.Flags().StringVar(&policy, "policy", "double_checked", "read policy: double_checked or locked")
	return cmd
}

// runStress races opts.goroutines callers against fresh holders for every
// round and fails if any holder constructed more than once.
func runStress(ctx context.Context, opts stressOptions, logger *slog.Logger, metrics observability.MetricsRecorder) (stressResult, error) {
	if opts.rounds < 1 {
		return stressResult{}, fmt.Errorf("rounds must be positive, got %d", opts.rounds)
	}

	holderOpts := []oncekit.Option{
		oncekit.WithPolicy(opts.policy),
		oncekit.WithLogger(logger),
		oncekit.WithMetrics(metrics),
	}
	perRound := int64(1)
	if opts.keys > 0 {
		perRound = int64(min(opts.keys, opts.goroutines))
	}
	var calls atomic.Int64
	factory := func() (*probe, error) {
		return &probe{seq: calls.Add(1)}, nil
	}

	for round := range opts.rounds {
		var err error
		if opts.keys > 0 {
			err = stressRegistry(ctx, opts, holderOpts, factory)
		} else {
			err = stressSingleton(ctx, opts, holderOpts, factory)
		}
		if err != nil {
			return stressResult{}, fmt.Errorf("round %d: %w", round, err)
		}
		logger.Debug("round complete", slog.Int("round", round), slog.Int64("constructions", calls.Load()))
	}

	res := stressResult{
		Constructions: calls.Load(),
		Expected:      perRound * int64(opts.rounds),
	}
	if res.Constructions != res.Expected {
		return res, fmt.Errorf("constructed %d instances, expected %d", res.Constructions, res.Expected)
	}
	return res, nil
}

func stressSingleton(ctx context.Context, opts stressOptions, holderOpts []oncekit.Option, factory func() (*probe, error)) error {
	s := oncekit.New[*probe](append(holderOpts, oncekit.WithName("stress"))...)
	results, err := concurrent.Collect(ctx, opts.goroutines, func(context.Context, int) (*probe, error) {
		return s.GetOrInit(factory)
	})
	if err != nil {
		return err
	}
	for i, p := range results {
		if p != results[0] {
			return fmt.Errorf("goroutine %d saw instance %d, goroutine 0 saw %d", i, p.seq, results[0].seq)
		}
	}
	return nil
}

func stressRegistry(ctx context.Context, opts stressOptions, holderOpts []oncekit.Option, factory func() (*probe, error)) error {
	r := registry.New[int, *probe](append(holderOpts, oncekit.WithName("stress"))...)
	results, err := concurrent.Collect(ctx, opts.goroutines, func(_ context.Context, i int) (*probe, error) {
		return r.Get(i%opts.keys, func(int) (*probe, error) { return factory() })
	})
	if err != nil {
		return err
	}
	for i, p := range results {
		if first := results[i%opts.keys]; p != first {
			return fmt.Errorf("key %d returned instances %d and %d", i%opts.keys, first.seq, p.seq)
		}
	}
	return nil
}

// waitCount returns how many callers blocked on another caller's construction.
func waitCount(rm *metricdata.ResourceMetrics) uint64 {
	var n uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "oncekit.wait.latency_ms" {
				continue
			}
			if hist, ok := m.Data.(metricdata.Histogram[float64]); ok {
				for _, dp := range hist.DataPoints {
					n += dp.Count
				}
			}
		}
	}
	return n
}
