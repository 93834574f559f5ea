package lsp

import (
	"context"
	"strings"

	"github.com/creachadair/jrpc2"

	"github.com/vito/sable/pkg/sable"
)

func (h *Handler) handleTextDocumentFormatting(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DocumentFormattingParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	f, ok := h.snapshot(params.TextDocument.URI)
	if !ok {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "document not found: %v", params.TextDocument.URI)
	}

	path, err := fromURI(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	cfg, err := h.configFor(path)
	if err != nil {
		cfg = sable.DefaultConfig()
	}

	// parse errors are already published as diagnostics
	prog, diags := sable.Parse(path, f.Text, cfg.RecursionLimit())
	if diags.HasErrors() {
		return []TextEdit{}, nil
	}
	formatted := sable.Format(prog)
	if formatted == f.Text {
		return []TextEdit{}, nil
	}

	lines := strings.Split(f.Text, "\n")
	end := Position{
		Line:      len(lines) - 1,
		Character: len([]rune(lines[len(lines)-1])),
	}
	return []TextEdit{
		{
			Range:   Range{End: end},
			NewText: formatted,
		},
	}, nil
}
