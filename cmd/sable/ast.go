package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/vito/sable/pkg/ioctx"
	"github.com/vito/sable/pkg/sable"
)

func astCmd() *cobra.Command {
	var types bool

	cmd := &cobra.Command{
		Use:   "ast [flags] file",
		Short: "Print the syntax tree of a Sable file",
		Long: `Print the syntax tree of a Sable file.

With --types the file is type checked first and every expression is listed
with its position and resolved type instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAST(cmd.Context(), args[0], types)
		},
	}

	cmd.Flags().BoolVarP(&types, "types", "t", false, "List expressions with their inferred types")

	return cmd
}

func runAST(ctx context.Context, path string, types bool) error {
	unit, err := sable.LoadUnit(path)
	if err != nil {
		return err
	}
	stdout := ioctx.StdoutFromContext(ctx)

	if !types {
		prog, diags := sable.Parse(unit.Filename, unit.Source, sable.DefaultMaxDepth)
		if err := diags.Err(); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(prog))
		return nil
	}

	cfg, err := loadConfig(filepath.Dir(path))
	if err != nil {
		return err
	}
	res, err := sable.Check(ctx, unit, cfg)
	if err != nil {
		return err
	}
	if err := res.Diagnostics.Err(); err != nil {
		return err
	}
	sable.Walk(res.Program, func(n sable.Node) bool {
		if e, ok := n.(sable.Expr); ok {
			loc := e.GetSourceLocation()
			fmt.Fprintf(stdout, "%d:%d\t%s : %s\n", loc.Line, loc.Column, sable.Format(e), e.GetInferredType())
		}
		return true
	})
	return nil
}
