package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vk/vesselgo/internal/app"
	"github.com/vk/vesselgo/internal/cli"
	"github.com/vk/vesselgo/internal/hclconf"
	"github.com/vk/vesselgo/internal/promise"
)

// main is the entrypoint for the vesselgo service.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical config errors, so we recover here to provide
	// a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	proc := app.NewShutdownHandle()
	loader := hclconf.NewLoader()
	vesselApp := app.NewApp(outW, appConfig, loader, app.WithProcessHandle(proc))

	ctx := context.Background()
	started, readiness := promise.New[struct{}]()
	vesselApp.Start(ctx, started)

	<-readiness.Done()
	if err := readiness.Err(); err != nil {
		select {
		case <-proc.Done():
			// Fatal policy: the orchestrator requested termination.
			return &cli.ExitError{Code: 1, Message: fmt.Sprintf("startup failed: %v", err)}
		default:
			// Degraded but alive: stay up so the supervisor can inspect us.
			slog.Warn("Service started degraded.", "error", err)
		}
	}

	// Run until the orchestrator requests termination or the OS asks us to
	// stop.
	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case <-proc.Done():
		return &cli.ExitError{Code: 1, Message: "terminated by failure policy"}
	case <-signalCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return vesselApp.Shutdown(shutdownCtx)
}
