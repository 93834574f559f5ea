package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vito/sable/pkg/ioctx"
)

func runSable(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	ctx := context.Background()
	ctx = ioctx.StdoutToContext(ctx, &stdout)
	ctx = ioctx.StderrToContext(ctx, &stderr)

	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCheckPrintsBindings(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "ok.sable", "let id = \\x. x;\nfn inc(n) { return n + 1; }\n")

	stdout, _, err := runSable(t, "check", path)
	require.NoError(t, err)
	assert.Equal(t, "id : forall a. a -> a\ninc : Int -> Int\n", stdout)
}

func TestCheckReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "bad.sable", "let a = 1 + true;\nlet b = nope;\n")

	stdout, stderr, err := runSable(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 problem(s)")
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "TypeError[unification-failure]")
	assert.Contains(t, stderr, "TypeError[unbound-variable]: nope not found in scope")
	assert.Contains(t, stderr, "--> "+path+":2:9")
}

func TestCheckYAML(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.sable", "let x = 1;\n")
	writeSource(t, dir, "b.sable", "let y = ;\n")

	stdout, _, err := runSable(t, "check", "-o", "yaml", dir)
	require.Error(t, err)

	var reports []fileReport
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 2)
	assert.True(t, reports[0].OK)
	assert.Equal(t, []bindingReport{{Name: "x", Type: "Int"}}, reports[0].Bindings)
	assert.False(t, reports[1].OK)
	require.Len(t, reports[1].Diagnostics, 1)
	assert.Equal(t, "ExpectedExpression", string(reports[1].Diagnostics[0].Code))
}

func TestCheckUsesConfig(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "sable.toml", "[prelude]\nlen = \"String -> Int\"\n")
	path := writeSource(t, dir, "main.sable", "let n = len(\"abc\");\n")

	stdout, _, err := runSable(t, "check", path)
	require.NoError(t, err)
	assert.Equal(t, "n : Int\n", stdout)
}

func TestFmt(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "messy.sable", "let   x=1+2 ;")

	stdout, _, err := runSable(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1 + 2;\n", stdout)

	stdout, _, err = runSable(t, "fmt", "-l", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", stdout)

	_, _, err = runSable(t, "fmt", "-w", path)
	require.NoError(t, err)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1 + 2;\n", string(contents))

	stdout, _, err = runSable(t, "fmt", "-l", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestFmtUsesConfiguredRecursionLimit(t *testing.T) {
	dir := t.TempDir()
	deep := "let x = " + strings.Repeat("(", 600) + "1" + strings.Repeat(")", 600) + ";"
	path := writeSource(t, dir, "deep.sable", deep)

	_, _, err := runSable(t, "fmt", path)
	require.ErrorContains(t, err, "nesting exceeds the limit of 512 levels")

	writeSource(t, dir, "sable.toml", "max_depth = 1000\n")
	stdout, _, err := runSable(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;\n", stdout)
}

func TestASTTypes(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "t.sable", "let b = 1 < 2;\n")

	stdout, _, err := runSable(t, "ast", "--types", path)
	require.NoError(t, err)
	assert.Equal(t, "1:9\t1 < 2 : Bool\n1:9\t1 : Int\n1:13\t2 : Int\n", stdout)

	stdout, _, err = runSable(t, "ast", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "sable.Let")
}
