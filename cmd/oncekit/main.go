// Command oncekit inspects stored instances and stress-tests holders.
//
//	oncekit stress --goroutines 200 --policy locked
//	oncekit stress --keys 8 --rounds 5
//	oncekit store list
//	oncekit pool --config backends.yaml --picks 30
//
// Environment:
//
//	ONCEKIT_DB         SQLite database for the store commands (default oncekit.db)
//	ONCEKIT_CONFIG     default config file for the pool command
//	ONCEKIT_LOG_LEVEL  debug, info, warn or error (default info)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(envconfig.OsLookuper()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "oncekit: %v\n", err)
		os.Exit(1)
	}
}
