package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/numc/internal/hir"
	"github.com/orizon-lang/numc/internal/hir/passes"
)

func simplify(t *testing.T, src string) *hir.Program {
	t.Helper()
	program := parseProgram(t, src)
	passes.NewTypecheckPass().Run(program)
	passes.NewSimplifyPass().Run(program)
	return program
}

// TestConstantFoldingIsSound checks that for closed expressions with no
// variables or calls, folding evaluates to the arithmetically correct
// value.
func TestConstantFoldingIsSound(t *testing.T) {
	cases := []struct {
		src      string
		expected float64
	}{
		{"fn f() -> f64 { return 1 + 2 * 3 }", 7},
		{"fn f() -> f64 { return (1 + 2) * 3 }", 9},
		{"fn f() -> f64 { return 10 - 3 - 2 }", 5},
		{"fn f() -> f64 { return 2 * 3 * 4 }", 24},
	}
	for _, c := range cases {
		program := simplify(t, c.src)
		ret := program.Functions[0].Body.Statements[0]
		require.Equal(t, hir.ExprNumber, ret.ReturnValue.Kind, c.src)
		assert.Equal(t, c.expected, ret.ReturnValue.NumberValue, c.src)
	}
}

func TestNestedArithmeticFoldsToASingleLiteral(t *testing.T) {
	program := simplify(t, "fn main() -> f64 { return 1 + 2 * 3 }")
	ret := program.Functions[0].Body.Statements[0]
	require.Equal(t, hir.ExprNumber, ret.ReturnValue.Kind)
	assert.Equal(t, 7.0, ret.ReturnValue.NumberValue)
}

func TestAdditiveIdentityEliminatesTheZero(t *testing.T) {
	program := simplify(t, "fn f(x: f64) -> f64 { var y = x + 0 return y }")
	decl := program.Functions[0].Body.Statements[0]
	assert.Equal(t, hir.ExprVariable, decl.AssignRHS.Kind)
	assert.Equal(t, "x", decl.AssignRHS.Name)
}

func TestDivisionByZeroNotFoldedAndWarned(t *testing.T) {
	program := parseProgram(t, "fn f() -> f64 { return 1 / 0 }")
	passes.NewTypecheckPass().Run(program)
	sp := passes.NewSimplifyPass()
	sp.Run(program)
	ret := program.Functions[0].Body.Statements[0]
	assert.Equal(t, hir.ExprBinaryOp, ret.ReturnValue.Kind)
	require.NotEmpty(t, sp.Diagnostics.Warnings)
}

func TestModuloByZeroNotFoldedAndWarned(t *testing.T) {
	program := parseProgram(t, "fn f() -> f64 { return 1 % 0 }")
	passes.NewTypecheckPass().Run(program)
	sp := passes.NewSimplifyPass()
	sp.Run(program)
	require.NotEmpty(t, sp.Diagnostics.Warnings)
	ret := program.Functions[0].Body.Statements[0]
	assert.Equal(t, hir.ExprBinaryOp, ret.ReturnValue.Kind)
}

// TestAlgebraicSimplificationIsIdempotent checks that running the pass
// a second time over already-simplified input is a no-op.
func TestAlgebraicSimplificationIsIdempotent(t *testing.T) {
	src := "fn f(x: f64) -> f64 { return (x - x) + (x * 1) - 0 }"
	once := parseProgram(t, src)
	passes.NewTypecheckPass().Run(once)
	passes.NewSimplifyPass().Run(once)

	twice := parseProgram(t, src)
	passes.NewTypecheckPass().Run(twice)
	passes.NewSimplifyPass().Run(twice)
	passes.NewSimplifyPass().Run(twice)

	assertSameShape(t, once.Functions[0].Body, twice.Functions[0].Body)
}

func assertSameShape(t *testing.T, a, b *hir.Block) {
	t.Helper()
	require.Equal(t, len(a.Statements), len(b.Statements))
	for i := range a.Statements {
		assertSameExprShape(t, a.Statements[i].ReturnValue, b.Statements[i].ReturnValue)
	}
}

func assertSameExprShape(t *testing.T, a, b *hir.Expression) {
	t.Helper()
	if a == nil || b == nil {
		require.Equal(t, a == nil, b == nil)
		return
	}
	require.Equal(t, a.Kind, b.Kind)
	switch a.Kind {
	case hir.ExprNumber:
		assert.Equal(t, a.NumberValue, b.NumberValue)
	case hir.ExprBoolean:
		assert.Equal(t, a.BooleanValue, b.BooleanValue)
	case hir.ExprVariable:
		assert.Equal(t, a.Name, b.Name)
	case hir.ExprBinaryOp:
		assertSameExprShape(t, a.Left, b.Left)
		assertSameExprShape(t, a.Right, b.Right)
	case hir.ExprUnaryOp:
		assertSameExprShape(t, a.Left, b.Left)
	}
}

// TestSpanPreservation checks that a surviving node's span after
// simplification still matches its pre-simplification span.
func TestSpanPreservation(t *testing.T) {
	before := parseProgram(t, "fn f() -> f64 { return 1 + 0 }")
	ancestorSpan := before.Functions[0].Body.Statements[0].ReturnValue.Span

	after := simplify(t, "fn f() -> f64 { return 1 + 0 }")
	ret := after.Functions[0].Body.Statements[0].ReturnValue

	assert.Equal(t, ancestorSpan, ret.Span)
}

// TestCommutativeNormalizationMovesLiteralRight checks that "0 + x" (a
// literal on the left) is normalized to "x + 0" before identity matching,
// so the `e + 0 -> e` rule — which only looks at the right operand —
// still fires.
func TestCommutativeNormalizationMovesLiteralRight(t *testing.T) {
	program := parseProgram(t, "fn f(x: f64) -> f64 { return 0 + x }")
	passes.NewTypecheckPass().Run(program)
	passes.NewSimplifyPass().Run(program)

	ret := program.Functions[0].Body.Statements[0].ReturnValue
	require.Equal(t, hir.ExprVariable, ret.Kind)
	assert.Equal(t, "x", ret.Name)
}

func TestDoubleNegationIdentity(t *testing.T) {
	program := simplify(t, "fn f(x: f64) -> f64 { var y = !!(x < 0) return 0 }")
	decl := program.Functions[0].Body.Statements[0]
	require.Equal(t, hir.ExprBinaryOp, decl.AssignRHS.Kind)
	assert.Equal(t, "x", decl.AssignRHS.Left.Name)
}
