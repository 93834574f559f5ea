package sable

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vito/sable/pkg/hm"
)

var tracer = otel.Tracer("github.com/vito/sable/pkg/sable")

// Unit is one compilation unit: a single source file.
type Unit struct {
	ID       uuid.UUID
	Filename string
	Source   string
}

// NewUnit creates a unit from in-memory source.
func NewUnit(filename, source string) *Unit {
	return &Unit{
		ID:       uuid.New(),
		Filename: filename,
		Source:   source,
	}
}

// LoadUnit reads a unit from disk.
func LoadUnit(path string) (*Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load unit")
	}
	return NewUnit(path, string(src)), nil
}

// Result is the outcome of checking one unit.
type Result struct {
	Unit    *Unit
	Program *Program

	// Env is the top-level environment after the last statement.
	Env *hm.Env

	// Subs is the final substitution.
	Subs hm.Subs

	// Diagnostics are ordered by position. Code generation may only
	// proceed when there are none.
	Diagnostics Diagnostics
}

// OK reports whether the unit checked without any diagnostics.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Binding is a top-level name with its generalized type.
type Binding struct {
	Name   string
	Scheme *hm.Scheme
}

// Bindings lists the top-level let and fn declarations in source order,
// with type variables renamed canonically.
func (r *Result) Bindings() []Binding {
	if r.Program == nil {
		return nil
	}
	var bindings []Binding
	for _, stmt := range r.Program.Body.Stmts {
		switch s := stmt.(type) {
		case *Let:
			if s.Scheme != nil {
				bindings = append(bindings, Binding{Name: s.Name, Scheme: s.Scheme.Normalize()})
			}
		case *Fn:
			if s.Scheme != nil {
				bindings = append(bindings, Binding{Name: s.Name, Scheme: s.Scheme.Normalize()})
			}
		}
	}
	return bindings
}

// Check lexes, parses, type checks and resolves a unit. Problems in the
// source are reported as diagnostics on the result; the error is non-nil
// only when ctx is done.
func Check(ctx context.Context, unit *Unit, cfg *Config) (*Result, error) {
	ctx, span := tracer.Start(ctx, "check "+unit.Filename, trace.WithAttributes(
		attribute.String("sable.unit.id", unit.ID.String()),
		attribute.String("sable.unit.file", unit.Filename),
	))
	defer span.End()

	logger := slog.With("unit", unit.ID.String(), "file", unit.Filename)
	result := &Result{Unit: unit}

	finish := func() (*Result, error) {
		result.Diagnostics.Sort()
		span.SetAttributes(attribute.Int("sable.diagnostics", len(result.Diagnostics)))
		if !result.OK() {
			span.SetStatus(codes.Error, result.Diagnostics[0].Message)
		}
		logger.Debug("checked unit",
			"diagnostics", len(result.Diagnostics),
			"parse_errors", result.Diagnostics.Count(ParseError)+result.Diagnostics.Count(LexicalError),
			"type_errors", result.Diagnostics.Count(TypeError))
		return result, nil
	}

	start := time.Now()
	_, parseSpan := tracer.Start(ctx, "parse")
	prog, diags := Parse(unit.Filename, unit.Source, cfg.RecursionLimit())
	parseSpan.End()
	logger.Debug("parsed", "statements", len(prog.Body.Stmts), "took", time.Since(start))

	result.Program = prog
	if diags.HasErrors() {
		result.Diagnostics = diags
		return finish()
	}

	env, err := NewRootEnv(cfg.prelude())
	if err != nil {
		result.Diagnostics = Diagnostics{newDiagnostic(InternalError, InternalFailure, nil, "%s", err)}
		return finish()
	}

	start = time.Now()
	inferCtx, inferSpan := tracer.Start(ctx, "infer")
	inferrer := NewInferrer(cfg.firstTypeVariable())
	env, err = inferrer.InferProgram(inferCtx, env, prog)
	inferSpan.End()
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrapf(err, "check %s", unit.Filename)
	}
	logger.Debug("inferred", "took", time.Since(start))

	result.Env = env
	result.Subs = inferrer.Subs()
	result.Diagnostics = inferrer.Errors().Diagnostics()

	Resolve(prog, result.Subs)
	if result.OK() {
		result.Diagnostics = CheckResolved(prog)
	}
	return finish()
}

// CheckAll checks units concurrently. Each unit gets its own counter,
// substitution and environment chain. Results are in the order of units.
func CheckAll(ctx context.Context, units []*Unit, cfg *Config) ([]*Result, error) {
	results := make([]*Result, len(units))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, unit := range units {
		eg.Go(func() error {
			res, err := Check(ctx, unit, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
