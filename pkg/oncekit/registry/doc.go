// Package registry provides multitons: one lazily constructed instance per key.
//
// # Lazy Registry
//
// Registry constructs an instance the first time a key is requested:
//
//	loggers := registry.New[string, *Logger](oncekit.WithName("loggers"))
//
//	userLog, err := loggers.Get("User", func(name string) (*Logger, error) {
//	    return NewLogger(name), nil
//	})
//
// The factory runs at most once per key, even under concurrent access.
// Construction for one key never blocks construction for another.
// Entries live for the lifetime of the registry.
//
// # Fixed Registry
//
// Fixed holds a population decided at startup, such as a pool of backends:
//
//	pool, err := registry.NewFixedFrom([]string{
//	    "192.168.1.1:9200",
//	    "192.168.1.2:9200",
//	    "192.168.1.3:9200",
//	}, NewBackend)
//
//	b, err := pool.GetRandom()
//	b, err = pool.Get("10.0.0.1:9200") // *oncekit.KeyNotFoundError
//
// # Thread Safety
//
// All methods are safe for concurrent use. Keys, Len and Range work over a
// snapshot taken at the time of the call.
package registry
