package oncekit

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/randalmurphal/oncekit/pkg/oncekit/observability"
)

// Policy selects how a Singleton guards its read path.
type Policy int

const (
	// PolicyDoubleChecked reads a READY instance with a single atomic load
	// and only takes the mutex while uninitialized.
	PolicyDoubleChecked Policy = iota

	// PolicyLocked takes the mutex on every call, like a synchronized getter.
	PolicyLocked
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyDoubleChecked:
		return "double_checked"
	case PolicyLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// ParsePolicy returns the policy named by s, as printed by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "double_checked", "":
		return PolicyDoubleChecked, nil
	case "locked":
		return PolicyLocked, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}

// settings holds the configuration shared by every holder type.
type settings struct {
	name    string
	policy  Policy
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures a holder.
type Option func(*settings)

// WithName sets the name used in logs, metrics, spans and errors.
// Default: a generated UUID.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithPolicy sets the read-path policy.
// Default: PolicyDoubleChecked
func WithPolicy(p Policy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithLogger sets the logger. Passing nil disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(s *settings) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSpanManager sets the span manager used to trace constructions.
// Default: observability.NoopSpanManager{}
func WithSpanManager(sm observability.SpanManager) Option {
	return func(s *settings) {
		if sm != nil {
			s.spans = sm
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		name:    uuid.New().String(),
		policy:  PolicyDoubleChecked,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Settings is the exported view of a resolved option set, for packages that
// build their own holders on top of Singleton.
type Settings struct {
	Name    string
	Policy  Policy
	Logger  *slog.Logger
	Metrics observability.MetricsRecorder
	Spans   observability.SpanManager
}

// ResolveOptions applies opts over the defaults.
func ResolveOptions(opts ...Option) Settings {
	s := newSettings(opts)
	return Settings{
		Name:    s.name,
		Policy:  s.policy,
		Logger:  s.logger,
		Metrics: s.metrics,
		Spans:   s.spans,
	}
}
