/*
Package oncekit provides race-free, exactly-once construction of shared
instances.

# Overview

A Singleton holds at most one instance of T. The first caller to find it
empty runs the factory; every concurrent caller blocks until that finishes
and receives the same instance. If the factory fails (or panics) the holder
goes back to uninitialized and the error reaches every caller waiting on that
attempt, so a later call can retry.

Holders are ordinary values. Instead of package-level statics, create them
where the owning component is built and pass them to whoever needs them.

# Variants

	// Lazy, double-checked: a READY read is one atomic load.
	ids := oncekit.New[*IDGenerator](oncekit.WithName("ids"))
	gen, err := ids.GetOrInit(NewIDGenerator)

	// Lazy, locked: every call takes the mutex, like a synchronized getter.
	ids := oncekit.New[*IDGenerator](oncekit.WithPolicy(oncekit.PolicyLocked))

	// Eager: built before anyone can call it.
	var ids = oncekit.MustEager(NewIDGenerator)

	// Holder: factory bound at declaration, built on first Get.
	var ids = oncekit.NewHolder(NewIDGenerator)
	gen, err := ids.Get()

	// Parameterized: Init once, then Get.
	pool := oncekit.NewParam(NewPool)
	pool.Init(PoolParams{Size: 10})
	p, err := pool.Get()

Keyed instances live in package registry, per-scope instances in package
scoped, and instances shared between processes in package cluster.

# States

	UNINITIALIZED -> INITIALIZING -> READY
	      ^               |
	      +---- failure --+

Reset moves a READY holder back to UNINITIALIZED.

# Errors

State contract violations (ErrNotInitialized, ErrAlreadyInitialized,
ErrParameterConflict) are programming errors and are never retried.
Construction failures are *ConstructionError values matching
ErrConstructionFailed; GetOrInitRetry retries only those.

# Observability

Holders log through slog (WithLogger), record OpenTelemetry metrics
(WithMetrics) and trace constructions (WithSpanManager). All three default to
slog.Default() and no-op recorders.
*/
package oncekit
