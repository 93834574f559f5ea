// Package lsp serves Sable diagnostics and type information to editors over
// the Language Server Protocol.
package lsp

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"
	"unicode"

	"github.com/creachadair/jrpc2"

	"github.com/vito/sable/pkg/sable"
)

// Handler dispatches LSP methods. Each open document is checked in full
// whenever it changes.
type Handler struct {
	srv *jrpc2.Server

	mu       sync.Mutex
	files    map[DocumentURI]*File
	rootPath string
}

// File is an open document and the outcome of its last check.
type File struct {
	LanguageID string
	Text       string
	Version    int
	Result     *sable.Result
}

// NewHandler creates a handler with no open documents.
func NewHandler() *Handler {
	return &Handler{
		files: make(map[DocumentURI]*File),
	}
}

// SetServer gives the handler the server it pushes notifications through.
func (h *Handler) SetServer(srv *jrpc2.Server) {
	h.srv = srv
}

// Assign implements jrpc2.Assigner.
func (h *Handler) Assign(ctx context.Context, method string) jrpc2.Handler {
	slog.DebugContext(ctx, "assign", "method", method)

	switch method {
	case "initialize":
		return h.handleInitialize
	case "initialized":
		return ignore
	case "shutdown":
		return h.handleShutdown
	case "exit":
		return h.handleExit
	case "textDocument/didOpen":
		return h.handleTextDocumentDidOpen
	case "textDocument/didChange":
		return h.handleTextDocumentDidChange
	case "textDocument/didSave":
		return h.handleTextDocumentDidSave
	case "textDocument/didClose":
		return h.handleTextDocumentDidClose
	case "textDocument/hover":
		return h.handleTextDocumentHover
	case "textDocument/definition":
		return h.handleTextDocumentDefinition
	case "textDocument/formatting":
		return h.handleTextDocumentFormatting
	case "textDocument/documentSymbol":
		return h.handleTextDocumentDocumentSymbol
	}
	return nil
}

func ignore(context.Context, *jrpc2.Request) (any, error) {
	return nil, nil
}

func isWindowsDrivePath(path string) bool {
	if len(path) < 4 {
		return false
	}
	return unicode.IsLetter(rune(path[0])) && path[1] == ':'
}

func isWindowsDriveURI(uri string) bool {
	if len(uri) < 4 {
		return false
	}
	return uri[0] == '/' && unicode.IsLetter(rune(uri[1])) && uri[2] == ':'
}

func fromURI(uri DocumentURI) (string, error) {
	u, err := url.ParseRequestURI(string(uri))
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("only file URIs are supported, got %v", u.Scheme)
	}
	if isWindowsDriveURI(u.Path) {
		u.Path = u.Path[1:]
	}
	return u.Path, nil
}

func toURI(path string) DocumentURI {
	if isWindowsDrivePath(path) {
		path = "/" + path
	}
	return DocumentURI((&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}).String())
}

// snapshot returns a copy of the document's current state.
func (h *Handler) snapshot(uri DocumentURI) (File, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.files[uri]
	if !ok {
		return File{}, false
	}
	return *f, true
}

func (h *Handler) openFile(uri DocumentURI, languageID string, version int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files[uri] = &File{
		LanguageID: languageID,
		Version:    version,
	}
}

func (h *Handler) closeFile(ctx context.Context, uri DocumentURI) {
	h.mu.Lock()
	delete(h.files, uri)
	h.mu.Unlock()

	// clear anything the editor is still showing
	h.notify(ctx, "textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})
}

// updateFile replaces the document's text, checks it, and publishes the
// resulting diagnostics.
func (h *Handler) updateFile(ctx context.Context, uri DocumentURI, text string, version *int) error {
	path, err := fromURI(uri)
	if err != nil {
		return fmt.Errorf("file path from URI: %w", err)
	}

	cfg, err := h.configFor(path)
	if err != nil {
		slog.WarnContext(ctx, "failed to load config, using defaults", "path", path, "error", err)
		cfg = sable.DefaultConfig()
	}

	res, err := sable.Check(ctx, sable.NewUnit(path, text), cfg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	f, ok := h.files[uri]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("document not found: %v", uri)
	}
	f.Text = text
	if version != nil {
		f.Version = *version
	}
	f.Result = res
	published := f.Version
	h.mu.Unlock()

	slog.InfoContext(ctx, "file updated", "path", path, "diagnostics", len(res.Diagnostics))

	diagnostics := make([]Diagnostic, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diagnostics = append(diagnostics, toDiagnostic(d))
	}
	h.notify(ctx, "textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     published,
		Diagnostics: diagnostics,
	})
	return nil
}

// configFor finds the sable.toml governing path. Documents outside any
// project fall back to the workspace root's config.
func (h *Handler) configFor(path string) (*sable.Config, error) {
	_, cfg, err := sable.FindConfig(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	h.mu.Lock()
	root := h.rootPath
	h.mu.Unlock()
	if root != "" {
		_, cfg, err = sable.FindConfig(root)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			return cfg, nil
		}
	}
	return sable.DefaultConfig(), nil
}

func (h *Handler) notify(ctx context.Context, method string, params any) {
	if h.srv == nil {
		return
	}
	if err := h.srv.Notify(ctx, method, params); err != nil {
		slog.ErrorContext(ctx, "failed to notify", "method", method, "error", err)
	}
}

// toDiagnostic converts a 1-based diagnostic to the protocol's 0-based
// range.
func toDiagnostic(d sable.Diagnostic) Diagnostic {
	return Diagnostic{
		Range:    toRange(d.Location()),
		Severity: SeverityError,
		Code:     d.Code.Slug(),
		Source:   "sable",
		Message:  d.Message,
	}
}

func toRange(loc *sable.SourceLocation) Range {
	if loc == nil || loc.Line == 0 {
		return Range{End: Position{Character: 1}}
	}
	start := Position{Line: loc.Line - 1, Character: max(loc.Column-1, 0)}
	end := start
	end.Character += max(loc.Length, 1)
	return Range{Start: start, End: end}
}
