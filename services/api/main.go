package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyderaqi/hyderaqi/services/api/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.RootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
