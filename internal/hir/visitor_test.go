package hir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orizon-lang/numc/internal/hir"
	"github.com/orizon-lang/numc/internal/lexer"
)

// recordingVisitor tallies how many times each hook fires, to assert the
// default Walk* recursion reaches every child exactly once.
type recordingVisitor struct {
	hir.BaseVisitor
	expressions int
	statements  int
}

func (r *recordingVisitor) VisitExpression(e *hir.Expression) {
	r.expressions++
	hir.WalkExpression(r, e)
}

func (r *recordingVisitor) VisitStatement(s *hir.Statement) {
	r.statements++
	hir.WalkStatement(r, s)
}

func TestWalkExpressionVisitsBothOperandsOfBinaryOp(t *testing.T) {
	left := &hir.Expression{Kind: hir.ExprNumber, NumberValue: 1}
	right := &hir.Expression{Kind: hir.ExprNumber, NumberValue: 2}
	bin := &hir.Expression{Kind: hir.ExprBinaryOp, Left: left, Right: right, Op: lexer.Token{Tag: lexer.Plus}}

	r := &recordingVisitor{}
	r.VisitExpression(bin)
	assert.Equal(t, 3, r.expressions) // bin + left + right
}

func TestWalkExpressionVisitsCallArguments(t *testing.T) {
	call := &hir.Expression{
		Kind: hir.ExprCall,
		Args: []*hir.Expression{
			{Kind: hir.ExprNumber, NumberValue: 1},
			{Kind: hir.ExprNumber, NumberValue: 2},
			{Kind: hir.ExprNumber, NumberValue: 3},
		},
	}
	r := &recordingVisitor{}
	r.VisitExpression(call)
	assert.Equal(t, 4, r.expressions) // call + 3 args
}

func TestWalkStatementRecursesIntoIfBranches(t *testing.T) {
	cond := &hir.Expression{Kind: hir.ExprBoolean, BooleanValue: true}
	thenStmt := &hir.Statement{Kind: hir.StmtExpression, Expr: &hir.Expression{Kind: hir.ExprNumber}}
	elseStmt := &hir.Statement{Kind: hir.StmtExpression, Expr: &hir.Expression{Kind: hir.ExprNumber}}
	stmt := &hir.Statement{
		Kind:      hir.StmtIf,
		Condition: cond,
		Then:      &hir.Block{Statements: []*hir.Statement{thenStmt}},
		Else:      &hir.Block{Statements: []*hir.Statement{elseStmt}},
	}

	r := &recordingVisitor{}
	r.VisitStatement(stmt)
	assert.Equal(t, 3, r.statements) // if + then + else
	assert.Equal(t, 3, r.expressions) // cond + two leaf exprs
}

func TestScopeLookupWalksInnermostToOutermost(t *testing.T) {
	outer := hir.NewScope(nil)
	outer.Declare("x", &hir.Variable{Name: "x"})
	inner := hir.NewScope(outer)
	shadow := &hir.Variable{Name: "x"}
	inner.Declare("x", shadow)

	found, ok := inner.Lookup("x")
	assert.True(t, ok)
	assert.Same(t, shadow, found)
	assert.True(t, inner.DeclaredHere("x"))
	assert.False(t, outer.DeclaredHere("y"))
}
