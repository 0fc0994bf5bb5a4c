package benchmarks

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/randalmurphal/oncekit/pkg/oncekit/storage"
)

// LargeState represents a larger instance for realistic benchmarks.
type LargeState struct {
	ID       string
	Values   []int
	Metadata map[string]string
	Nested   struct {
		A string
		B int
		C []string
	}
}

// BenchmarkMemoryStore_Save measures in-memory instance save.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	data, _ := json.Marshal(createLargeState())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(ctx, "instance", data)
	}
}

// BenchmarkMemoryStore_Load measures in-memory instance load.
func BenchmarkMemoryStore_Load(b *testing.B) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	data, _ := json.Marshal(createLargeState())
	_ = store.Save(ctx, "instance", data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load(ctx, "instance")
	}
}

// BenchmarkSQLiteStore_Save measures SQLite instance save.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	ctx := context.Background()
	data, _ := json.Marshal(createLargeState())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(ctx, instanceName(i%100), data)
	}
}

// BenchmarkSQLiteStore_Load measures SQLite instance load.
func BenchmarkSQLiteStore_Load(b *testing.B) {
	store, cleanup := createSQLiteStore(b)
	defer cleanup()

	ctx := context.Background()
	data, _ := json.Marshal(createLargeState())
	_ = store.Save(ctx, "instance", data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Load(ctx, "instance")
	}
}

// BenchmarkTyped_JSON measures a save/load cycle through the JSON codec.
func BenchmarkTyped_JSON(b *testing.B) {
	benchmarkTyped(b, storage.JSONCodec[LargeState]{})
}

// BenchmarkTyped_YAML measures a save/load cycle through the YAML codec.
func BenchmarkTyped_YAML(b *testing.B) {
	benchmarkTyped(b, storage.YAMLCodec[LargeState]{})
}

func benchmarkTyped(b *testing.B, codec storage.Codec[LargeState]) {
	typed := storage.NewTyped(storage.NewMemoryStore(), "instance", codec)
	ctx := context.Background()
	state := createLargeState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = typed.Save(ctx, state)
		_, _, _ = typed.Load(ctx)
	}
}

// Helper functions

func createLargeState() LargeState {
	return LargeState{
		ID:     "test-id",
		Values: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Metadata: map[string]string{
			"key1": "value1",
			"key2": "value2",
			"key3": "value3",
		},
		Nested: struct {
			A string
			B int
			C []string
		}{
			A: "nested-a",
			B: 42,
			C: []string{"c1", "c2", "c3"},
		},
	}
}

func createSQLiteStore(b *testing.B) (*storage.SQLiteStore, func()) {
	b.Helper()
	tmpFile, err := os.CreateTemp("", "bench-*.db")
	if err != nil {
		b.Fatal(err)
	}
	tmpFile.Close()

	store, err := storage.NewSQLiteStore(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		b.Fatal(err)
	}

	return store, func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
}
