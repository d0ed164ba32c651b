/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	apperrors "github.com/NVIDIA/policygen/pkg/errors"
	"github.com/NVIDIA/policygen/pkg/logging"
)

const (
	name           = "policygen"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// newRootCmd builds the command tree. out and errOut receive user-facing output.
func newRootCmd(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Scaffold RHACM operator-installation policy charts",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Description: `policygen creates a Helm chart holding an RHACM policy that installs one
OLM operator, optionally enables it in AutoShift values files, and validates
the result.`,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			generateCmd(),
			sectionsCmd(),
			versionCmd(),
		},
	}
}

// Execute runs the CLI and exits the process with status 1 on any error.
// This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, os.Args, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree and reports errors to errOut.
func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	err := newRootCmd(out, errOut).Run(ctx, args)
	if err == nil {
		return nil
	}

	fmt.Fprintf(errOut, "Error: %v\n", err)
	return err
}

// withUsage prints the command's usage line to stderr when action fails
// with an invalid request, so argument errors read like a usage message.
func withUsage(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		err := action(ctx, cmd)
		if apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest) {
			fmt.Fprintf(cmd.Root().ErrWriter, "Usage: %s [flags] %s\n", cmd.FullName(), cmd.ArgsUsage)
		}
		return err
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			fmt.Fprintf(cmd.Root().Writer, "%s %s\ncommit: %s\nbuilt:  %s\n", name, version, commit, date)
			return nil
		},
	}
}
