// Package ioctx carries a command's output streams through its context, so
// that code deep in a call stack can write without touching globals.
package ioctx

import (
	"context"
	"io"
)

type streamKey int

const (
	stdoutKey streamKey = iota
	stderrKey
)

func toContext(ctx context.Context, key streamKey, w io.Writer) context.Context {
	return context.WithValue(ctx, key, w)
}

func fromContext(ctx context.Context, key streamKey) io.Writer {
	if w, ok := ctx.Value(key).(io.Writer); ok {
		return w
	}
	return io.Discard
}

// StdoutToContext returns a context whose stdout is w.
func StdoutToContext(ctx context.Context, w io.Writer) context.Context {
	return toContext(ctx, stdoutKey, w)
}

// StdoutFromContext returns the context's stdout, or io.Discard.
func StdoutFromContext(ctx context.Context) io.Writer {
	return fromContext(ctx, stdoutKey)
}

// StderrToContext returns a context whose stderr is w.
func StderrToContext(ctx context.Context, w io.Writer) context.Context {
	return toContext(ctx, stderrKey, w)
}

// StderrFromContext returns the context's stderr, or io.Discard.
func StderrFromContext(ctx context.Context) io.Writer {
	return fromContext(ctx, stderrKey)
}
