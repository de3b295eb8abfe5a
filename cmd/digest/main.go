package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"doc-digest/internal/app"
	"doc-digest/internal/config"
	"doc-digest/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(buildDeps, os.Stdin, os.Stdout).RunContext(ctx, os.Args)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// buildDeps wires the same components as the gateway but logs to stderr so
// stdout carries only summaries and answers.
func buildDeps(c *cli.Context) (app.Deps, error) {
	if err := app.LoadEnv(); err != nil {
		return app.Deps{}, err
	}
	cfg := config.Load()
	cfg.LogLevel = c.String("log-level")
	return app.Assemble(cfg, logger.NewWithWriter(os.Stderr, cfg.LogLevel))
}
