// Package main is the tally command: a score keeper for domino games
// backed by a local SQLite or bbolt database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/tally/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
