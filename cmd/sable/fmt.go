package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vito/sable/pkg/ioctx"
	"github.com/vito/sable/pkg/sable"
)

func fmtCmd() *cobra.Command {
	var (
		write bool
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [flags] path...",
		Short: "Format Sable source files",
		Long: `Format Sable source files according to the canonical style.

By default, fmt prints the formatted source to stdout.
Use -w to write the result back to the source file.
Use -l to list files that would be changed.
Comments are not preserved.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd.Context(), args, write, list)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write result to source file instead of stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List files that would be formatted")

	return cmd
}

func runFmt(ctx context.Context, paths []string, write, list bool) error {
	files, err := collectFiles(paths)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := formatFile(ctx, file, write, list); err != nil {
			return fmt.Errorf("formatting %s: %w", file, err)
		}
	}
	return nil
}

func formatFile(ctx context.Context, path string, write, list bool) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(filepath.Dir(path))
	if err != nil {
		return err
	}

	prog, diags := sable.Parse(path, string(source), cfg.RecursionLimit())
	if err := diags.Err(); err != nil {
		return err
	}
	formatted := sable.Format(prog)

	stdout := ioctx.StdoutFromContext(ctx)
	changed := string(source) != formatted

	if list && !write {
		if changed {
			fmt.Fprintln(stdout, path)
		}
		return nil
	}

	if write {
		if changed {
			if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
				return err
			}
			if list {
				fmt.Fprintln(stdout, path)
			}
		}
		return nil
	}

	fmt.Fprint(stdout, formatted)
	return nil
}
