package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ytaudio/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "ytaudio: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "ytaudio: interrupted")
		}
		os.Exit(services.ExitCode(err))
	}
}
