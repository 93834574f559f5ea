package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
)

func (h *Handler) handleTextDocumentDefinition(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params TextDocumentPositionParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	f, ok := h.snapshot(params.TextDocument.URI)
	if !ok || f.Result == nil || f.Result.Program == nil {
		return nil, nil
	}

	id := IdentifierAt(f.Result.Program, params.Position)
	if id == nil {
		return nil, nil
	}
	def := Definition(f.Result.Program, id)
	if def == nil {
		return nil, nil
	}
	return &Location{
		URI:   params.TextDocument.URI,
		Range: toRange(def),
	}, nil
}
