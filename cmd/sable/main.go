package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vito/sable/pkg/ioctx"
	"github.com/vito/sable/pkg/sable"
)

// Config holds the application configuration
type Config struct {
	Debug bool
}

func main() {
	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, os.Stdout)
	ctx = ioctx.StderrToContext(ctx, os.Stderr)

	// Use fang for styled execution with enhanced features
	if err := fang.Execute(ctx, rootCmd(),
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfg Config

	root := &cobra.Command{
		Use:   "sable",
		Short: "Sable front end",
		Long: `Sable parses and type checks Sable source files.

Every problem in a file is reported with its position; type checking
continues past errors so a single run shows as many as possible.`,
		Example: `  # Type check a file and print its top-level types
  sable check script.sable

  # Check every .sable file in a directory
  sable check ./src

  # Format a file in place
  sable fmt -w script.sable`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.Context(), cfg)
		},
	}

	root.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")

	root.AddCommand(checkCmd())
	root.AddCommand(fmtCmd())
	root.AddCommand(astCmd())
	root.AddCommand(lspCmd(&cfg))

	return root
}

func setupLogging(ctx context.Context, cfg Config) {
	// Set up slog with appropriate level
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(ioctx.StderrFromContext(ctx), &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// collectFiles expands directories into the .sable files they contain.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("accessing %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sable") {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .sable files in %s", strings.Join(paths, ", "))
	}
	return files, nil
}

// loadConfig finds the sable.toml governing dir, falling back to defaults.
func loadConfig(dir string) (*sable.Config, error) {
	path, cfg, err := sable.FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return sable.DefaultConfig(), nil
	}
	slog.Debug("loaded config", "path", path)
	return cfg, nil
}
