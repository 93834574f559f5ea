package lsp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t     *testing.T
	cli   *jrpc2.Client
	diags chan PublishDiagnosticsParams
}

func startServer(t *testing.T) *testClient {
	t.Helper()
	cch, sch := channel.Direct()

	h := NewHandler()
	srv := jrpc2.NewServer(h, &jrpc2.ServerOptions{AllowPush: true})
	h.SetServer(srv)
	srv.Start(sch)

	tc := &testClient{t: t, diags: make(chan PublishDiagnosticsParams, 16)}
	tc.cli = jrpc2.NewClient(cch, &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			if req.Method() != "textDocument/publishDiagnostics" {
				return
			}
			var params PublishDiagnosticsParams
			if err := req.UnmarshalParams(&params); err == nil {
				tc.diags <- params
			}
		},
	})
	t.Cleanup(func() {
		_ = tc.cli.Close()
		srv.Stop()
	})

	var result InitializeResult
	require.NoError(t, tc.cli.CallResult(context.Background(), "initialize", InitializeParams{
		RootURI: toURI(t.TempDir()),
	}, &result))
	require.True(t, result.Capabilities.HoverProvider)
	require.Equal(t, TDSKFull, result.Capabilities.TextDocumentSync)
	return tc
}

func (tc *testClient) call(method string, params, result any) {
	tc.t.Helper()
	require.NoError(tc.t, tc.cli.CallResult(context.Background(), method, params, result))
}

func (tc *testClient) notify(method string, params any) {
	tc.t.Helper()
	require.NoError(tc.t, tc.cli.Notify(context.Background(), method, params))
}

func (tc *testClient) nextDiagnostics() PublishDiagnosticsParams {
	tc.t.Helper()
	select {
	case params := <-tc.diags:
		return params
	case <-time.After(5 * time.Second):
		tc.t.Fatal("timed out waiting for diagnostics")
		return PublishDiagnosticsParams{}
	}
}

func (tc *testClient) open(text string) DocumentURI {
	tc.t.Helper()
	uri := toURI(filepath.Join(tc.t.TempDir(), "main.sable"))
	tc.notify("textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: "sable", Version: 1, Text: text},
	})
	return uri
}

func TestDiagnosticsFollowEdits(t *testing.T) {
	tc := startServer(t)
	uri := tc.open("let a = 1 + true;\nlet b = nope;\n")

	published := tc.nextDiagnostics()
	assert.Equal(t, uri, published.URI)
	assert.Equal(t, 1, published.Version)
	require.Len(t, published.Diagnostics, 2)
	assert.Equal(t, "unification-failure", published.Diagnostics[0].Code)
	assert.Equal(t, Range{
		Start: Position{Line: 0, Character: 12},
		End:   Position{Line: 0, Character: 16},
	}, published.Diagnostics[0].Range)
	assert.Equal(t, "unbound-variable", published.Diagnostics[1].Code)
	assert.Equal(t, "nope not found in scope", published.Diagnostics[1].Message)
	assert.Equal(t, SeverityError, published.Diagnostics[1].Severity)
	assert.Equal(t, "sable", published.Diagnostics[1].Source)

	tc.notify("textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "let a = 1 + 2;\n"}},
	})
	published = tc.nextDiagnostics()
	assert.Equal(t, 2, published.Version)
	assert.Empty(t, published.Diagnostics)

	tc.notify("textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})
	published = tc.nextDiagnostics()
	assert.Empty(t, published.Diagnostics)
}

func TestParseErrorsArePublished(t *testing.T) {
	tc := startServer(t)
	tc.open("let x = ;\nlet y = f(1, 2")

	published := tc.nextDiagnostics()
	require.Len(t, published.Diagnostics, 2)
	assert.Equal(t, "expected-expression", published.Diagnostics[0].Code)
	assert.Equal(t, "unclosed-delimiter", published.Diagnostics[1].Code)
	assert.Equal(t, 1, published.Diagnostics[1].Range.Start.Line)
}

func TestHoverAndDefinition(t *testing.T) {
	tc := startServer(t)
	uri := tc.open("let id = \\x. x;\nlet n = id(1);\nfn twice(f) { return \\y. f(f(y)); }\n")
	require.Empty(t, tc.nextDiagnostics().Diagnostics)

	var hover Hover
	tc.call("textDocument/hover", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 1, Character: 9},
	}, &hover)
	assert.Equal(t, "markdown", hover.Contents.Kind)
	assert.Equal(t, "```sable\nid : forall a. a -> a\n```", hover.Contents.Value)
	require.NotNil(t, hover.Range)
	assert.Equal(t, Position{Line: 1, Character: 8}, hover.Range.Start)

	var loc Location
	tc.call("textDocument/definition", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 1, Character: 8},
	}, &loc)
	assert.Equal(t, uri, loc.URI)
	assert.Equal(t, Range{
		Start: Position{Line: 0, Character: 4},
		End:   Position{Line: 0, Character: 6},
	}, loc.Range)

	// parameters resolve to the function that declares them
	tc.call("textDocument/definition", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 2, Character: 25},
	}, &loc)
	assert.Equal(t, 2, loc.Range.Start.Line)
	assert.Equal(t, 0, loc.Range.Start.Character)

	var nothing *Hover
	tc.call("textDocument/hover", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 0, Character: 1},
	}, &nothing)
	assert.Nil(t, nothing)
}

func TestFormatting(t *testing.T) {
	tc := startServer(t)
	uri := tc.open("let   x=1+2 ;\nlet y = (x);")
	tc.nextDiagnostics()

	var edits []TextEdit
	tc.call("textDocument/formatting", DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}, &edits)
	require.Len(t, edits, 1)
	assert.Equal(t, "let x = 1 + 2;\nlet y = x;\n", edits[0].NewText)
	assert.Equal(t, Position{Line: 1, Character: 12}, edits[0].Range.End)
}

func TestFormattingUsesProjectConfig(t *testing.T) {
	tc := startServer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sable.toml"), []byte("max_depth = 1000\n"), 0o644))

	deep := "let x = " + strings.Repeat("(", 600) + "1" + strings.Repeat(")", 600) + ";"
	uri := toURI(filepath.Join(dir, "deep.sable"))
	tc.notify("textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: "sable", Version: 1, Text: deep},
	})
	require.Empty(t, tc.nextDiagnostics().Diagnostics)

	var edits []TextEdit
	tc.call("textDocument/formatting", DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}, &edits)
	require.Len(t, edits, 1)
	assert.Equal(t, "let x = 1;\n", edits[0].NewText)
}

func TestDocumentSymbols(t *testing.T) {
	tc := startServer(t)
	uri := tc.open("let k = \\a b. a;\nfn inc(n) { return n + 1; }\nprint(1);\n")
	tc.nextDiagnostics()

	var symbols []DocumentSymbol
	tc.call("textDocument/documentSymbol", DocumentSymbolParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}, &symbols)
	require.Len(t, symbols, 2)
	assert.Equal(t, "k", symbols[0].Name)
	assert.Equal(t, VariableSymbol, symbols[0].Kind)
	assert.Equal(t, "forall a b. a -> b -> a", symbols[0].Detail)
	assert.Equal(t, "inc", symbols[1].Name)
	assert.Equal(t, FunctionSymbol, symbols[1].Kind)
	assert.Equal(t, "Int -> Int", symbols[1].Detail)
	assert.Equal(t, Position{Line: 1, Character: 3}, symbols[1].SelectionRange.Start)
}

func TestUnknownMethod(t *testing.T) {
	tc := startServer(t)
	_, err := tc.cli.Call(context.Background(), "textDocument/completion", nil)
	require.Error(t, err)
	assert.Equal(t, jrpc2.MethodNotFound, jrpc2.ErrorCode(err))
}
