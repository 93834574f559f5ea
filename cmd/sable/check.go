package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vito/sable/pkg/ioctx"
	"github.com/vito/sable/pkg/sable"
)

func checkCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "check [flags] path...",
		Short: "Type check Sable source files",
		Long: `Type check Sable source files.

Diagnostics are printed to stderr with the offending source lines. When a
file checks cleanly its top-level bindings are printed with their types.
Use -o yaml for machine-readable output.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or yaml")

	return cmd
}

type fileReport struct {
	File        string            `yaml:"file"`
	OK          bool              `yaml:"ok"`
	Bindings    []bindingReport   `yaml:"bindings,omitempty"`
	Diagnostics sable.Diagnostics `yaml:"diagnostics,omitempty"`
}

type bindingReport struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func runCheck(ctx context.Context, paths []string, output string) error {
	if output != "text" && output != "yaml" {
		return fmt.Errorf("unknown output format %q", output)
	}

	files, err := collectFiles(paths)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(filepath.Dir(files[0]))
	if err != nil {
		return err
	}

	units := make([]*sable.Unit, len(files))
	for i, file := range files {
		unit, err := sable.LoadUnit(file)
		if err != nil {
			return err
		}
		units[i] = unit
	}

	results, err := sable.CheckAll(ctx, units, cfg)
	if err != nil {
		return err
	}

	problems := 0
	reports := make([]fileReport, len(results))
	for i, res := range results {
		problems += len(res.Diagnostics)
		reports[i] = fileReport{
			File:        res.Unit.Filename,
			OK:          res.OK(),
			Diagnostics: res.Diagnostics,
		}
		for _, b := range res.Bindings() {
			reports[i].Bindings = append(reports[i].Bindings, bindingReport{
				Name: b.Name,
				Type: b.Scheme.String(),
			})
		}
	}

	stdout := ioctx.StdoutFromContext(ctx)
	stderr := ioctx.StderrFromContext(ctx)
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		color := isTerminal(stderr)
		for i, res := range results {
			for _, d := range res.Diagnostics {
				fmt.Fprintln(stderr, sable.NewSourceError(d, res.Unit.Source).Format(color))
			}
			if !res.OK() {
				continue
			}
			if len(results) > 1 {
				fmt.Fprintf(stdout, "%s:\n", res.Unit.Filename)
			}
			for _, b := range reports[i].Bindings {
				fmt.Fprintf(stdout, "%s : %s\n", b.Name, b.Type)
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("found %d problem(s) in %d file(s)", problems, len(files))
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
