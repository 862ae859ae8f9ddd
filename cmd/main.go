package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shco.dev/cli/internal/interfaces/cli"
	"shco.dev/cli/internal/interfaces/di"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancelling the context stops watch and kills in-flight git clones;
	// sync then leaves the lock untouched.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	cli.Execute(ctx, di.NewCLIContainer)
}
