package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/spf13/cobra"

	"github.com/vito/sable/pkg/ioctx"
	"github.com/vito/sable/pkg/lsp"
)

func lspCmd(cfg *Config) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLSP(cmd.Context(), logFile, cfg.Debug)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file (stderr if not specified)")

	return cmd
}

func runLSP(ctx context.Context, logFile string, debug bool) error {
	logDest := ioctx.StderrFromContext(ctx)
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return fmt.Errorf("open lsp log: %w", err)
		}
		defer f.Close() //nolint:errcheck
		logDest = f
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	// stdout carries the protocol, so logs must never go there
	logger := slog.New(slog.NewTextHandler(logDest, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.InfoContext(ctx, "starting LSP server")

	handler := lsp.NewHandler()
	srv := jrpc2.NewServer(handler, &jrpc2.ServerOptions{
		AllowPush: true,
		Logger:    func(text string) { logger.Debug(text) },
	})

	// Store server reference in handler for callbacks
	handler.SetServer(srv)

	srv.Start(channel.LSP(stdrwc{}, stdrwc{}))

	logger.InfoContext(ctx, "LSP server closed", "error", srv.Wait())
	return nil
}

type stdrwc struct{}

var _ io.ReadWriteCloser = stdrwc{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
