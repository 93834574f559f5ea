package lsp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/creachadair/jrpc2"

	"github.com/vito/sable/pkg/hm"
	"github.com/vito/sable/pkg/sable"
)

func (h *Handler) handleTextDocumentHover(ctx context.Context, req *jrpc2.Request) (any, error) {
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
	prog := f.Result.Program

	id := IdentifierAt(prog, params.Position)
	if id == nil {
		return nil, nil
	}

	// Prefer the declared, generalized type over the instance used here.
	var typeInfo fmt.Stringer
	if def := Definition(prog, id); def != nil {
		if scheme := schemeAt(prog, def); scheme != nil {
			typeInfo = scheme.Normalize()
		}
	}
	if typeInfo == nil {
		t := id.GetInferredType()
		if t == nil {
			return nil, nil
		}
		typeInfo = t
	}

	slog.DebugContext(ctx, "hover", "uri", params.TextDocument.URI, "symbol", id.Name, "type", typeInfo)

	rng := toRange(id.Loc)
	return &Hover{
		Contents: MarkupContent{
			Kind:  "markdown",
			Value: fmt.Sprintf("```sable\n%s : %s\n```", id.Name, typeInfo),
		},
		Range: &rng,
	}, nil
}

// schemeAt returns the scheme of the let or fn whose name is at loc.
func schemeAt(prog *sable.Program, loc *sable.SourceLocation) *hm.Scheme {
	var scheme *hm.Scheme
	sable.Walk(prog, func(n sable.Node) bool {
		switch s := n.(type) {
		case *sable.Let:
			if s.NameLoc == loc {
				scheme = s.Scheme
			}
		case *sable.Fn:
			if s.NameLoc == loc {
				scheme = s.Scheme
			}
		case sable.Expr:
			return false
		}
		return scheme == nil
	})
	return scheme
}
