package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/treegen/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := cli.New(os.Stderr, cli.LogInfo).Execute(ctx)
	cancel()
	os.Exit(code)
}
