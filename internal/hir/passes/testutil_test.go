package passes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/numc/internal/hir"
	"github.com/orizon-lang/numc/internal/lexer"
	"github.com/orizon-lang/numc/internal/parser"
)

// parseProgram lexes and parses src, failing the test on any error — the
// shared fixture builder every passes_test file uses to get a fresh HIR
// tree to run a pass over.
func parseProgram(t *testing.T, src string) *hir.Program {
	t.Helper()
	tokens, err := lexer.Lex(src)
	require.NoError(t, err)
	program, err := parser.Parse(tokens)
	require.NoError(t, err)
	return program
}
