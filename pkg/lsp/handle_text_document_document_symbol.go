package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"

	"github.com/vito/sable/pkg/sable"
)

// handleTextDocumentDocumentSymbol lists the top-level bindings with their
// types.
func (h *Handler) handleTextDocumentDocumentSymbol(ctx context.Context, req *jrpc2.Request) (any, error) {
	if !req.HasParams() {
		return nil, jrpc2.Errorf(jrpc2.InvalidParams, "missing parameters")
	}

	var params DocumentSymbolParams
	if err := req.UnmarshalParams(&params); err != nil {
		return nil, err
	}

	symbols := []DocumentSymbol{}
	f, ok := h.snapshot(params.TextDocument.URI)
	if !ok || f.Result == nil || f.Result.Program == nil {
		return symbols, nil
	}

	for _, stmt := range f.Result.Program.Body.Stmts {
		var sym DocumentSymbol
		switch s := stmt.(type) {
		case *sable.Let:
			sym = DocumentSymbol{
				Name:           s.Name,
				Kind:           VariableSymbol,
				Range:          toRange(s.Loc),
				SelectionRange: toRange(s.NameLoc),
			}
			if s.Scheme != nil {
				sym.Detail = s.Scheme.Normalize().String()
			}
		case *sable.Fn:
			sym = DocumentSymbol{
				Name:           s.Name,
				Kind:           FunctionSymbol,
				Range:          toRange(s.Loc),
				SelectionRange: toRange(s.NameLoc),
			}
			if s.Scheme != nil {
				sym.Detail = s.Scheme.Normalize().String()
			}
		default:
			continue
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}
