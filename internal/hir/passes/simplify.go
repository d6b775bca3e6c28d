package passes

import (
	"fmt"

	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/hir"
	"github.com/orizon-lang/numc/internal/lexer"
)

// SimplifyPass performs post-order constant folding and algebraic
// simplification: children are rewritten before parents so folds compose,
// exactly as the reference compiler's ast_simplification pass does it.
type SimplifyPass struct {
	Folded      int
	Diagnostics *diagnostics.Collector
}

// NewSimplifyPass returns a ready-to-run SimplifyPass.
func NewSimplifyPass() *SimplifyPass {
	return &SimplifyPass{Diagnostics: diagnostics.New()}
}

// Run simplifies program in place and reports the fold counter.
func (sp *SimplifyPass) Run(program *hir.Program) {
	for _, g := range program.Globals {
		sp.simplifyVariable(g)
	}
	for _, f := range program.Functions {
		sp.simplifyBlock(f.Body)
	}
	sp.Diagnostics.Info(fmt.Sprintf("Folded %d expressions", sp.Folded))
}

func (sp *SimplifyPass) simplifyVariable(v *hir.Variable) {
	if v.Initializer != nil {
		v.Initializer = sp.simplifyExpression(v.Initializer)
	}
}

func (sp *SimplifyPass) simplifyBlock(b *hir.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		sp.simplifyStatement(s)
	}
}

func (sp *SimplifyPass) simplifyStatement(s *hir.Statement) {
	switch s.Kind {
	case hir.StmtAssignment:
		if s.AssignRHS != nil {
			s.AssignRHS = sp.simplifyExpression(s.AssignRHS)
		}
	case hir.StmtFunctionDefinition:
		sp.simplifyBlock(s.Func.Body)
	case hir.StmtIf:
		s.Condition = sp.simplifyExpression(s.Condition)
		sp.simplifyBlock(s.Then)
		sp.simplifyBlock(s.Else)
	case hir.StmtWhile:
		s.Condition = sp.simplifyExpression(s.Condition)
		sp.simplifyBlock(s.Then)
	case hir.StmtBlock:
		sp.simplifyBlock(s.Body)
	case hir.StmtReturn:
		if s.ReturnValue != nil {
			s.ReturnValue = sp.simplifyExpression(s.ReturnValue)
		}
	case hir.StmtExpression:
		s.Expr = sp.simplifyExpression(s.Expr)
	}
}

// simplifyExpression simplifies e's children first (post-order), then
// tries a constant fold, then (if folding didn't apply) an algebraic
// identity rewrite. The returned node preserves e's Span and Type.
func (sp *SimplifyPass) simplifyExpression(e *hir.Expression) *hir.Expression {
	switch e.Kind {
	case hir.ExprBinaryOp:
		e.Left = sp.simplifyExpression(e.Left)
		e.Right = sp.simplifyExpression(e.Right)
	case hir.ExprUnaryOp:
		e.Left = sp.simplifyExpression(e.Left)
	case hir.ExprCall:
		for i, arg := range e.Args {
			e.Args[i] = sp.simplifyExpression(arg)
		}
	}

	if e.Kind == hir.ExprBinaryOp || e.Kind == hir.ExprUnaryOp {
		e = sp.normalizeCommutative(e)
	}

	if folded := sp.tryConstantFold(e); folded != nil {
		sp.Folded++
		return folded
	}
	if simplified := sp.tryAlgebraicSimplify(e); simplified != nil {
		sp.Folded++
		return sp.simplifyExpression(simplified)
	}
	return e
}

// normalizeCommutative moves a literal operand to the right for the
// commutative operators, halving the identity-pattern count downstream.
func (sp *SimplifyPass) normalizeCommutative(e *hir.Expression) *hir.Expression {
	if e.Kind != hir.ExprBinaryOp {
		return e
	}
	switch e.Op.Tag {
	case lexer.Plus, lexer.Star, lexer.And, lexer.Or, lexer.Equal, lexer.NotEqual:
	default:
		return e
	}
	if isLiteral(e.Left) && !isLiteral(e.Right) {
		e.Left, e.Right = e.Right, e.Left
	}
	return e
}

func isLiteral(e *hir.Expression) bool {
	return e.Kind == hir.ExprNumber || e.Kind == hir.ExprBoolean
}

// tryConstantFold returns a folded replacement node, or nil if e is not a
// foldable constant expression.
func (sp *SimplifyPass) tryConstantFold(e *hir.Expression) *hir.Expression {
	switch e.Kind {
	case hir.ExprBinaryOp:
		return sp.tryFoldBinary(e)
	case hir.ExprUnaryOp:
		return sp.tryFoldUnary(e)
	default:
		return nil
	}
}

func (sp *SimplifyPass) tryFoldBinary(e *hir.Expression) *hir.Expression {
	left, right := e.Left, e.Right

	if left.Kind == hir.ExprNumber && right.Kind == hir.ExprNumber {
		a, b := left.NumberValue, right.NumberValue
		switch e.Op.Tag {
		case lexer.Plus:
			return numberNode(a+b, e)
		case lexer.Minus:
			return numberNode(a-b, e)
		case lexer.Star:
			return numberNode(a*b, e)
		case lexer.Slash:
			if b == 0 {
				sp.Diagnostics.Warn(fmt.Sprintf("Division by zero at %s", e.Span.String()))
				return nil
			}
			return numberNode(a/b, e)
		case lexer.Percent:
			if b == 0 {
				sp.Diagnostics.Warn(fmt.Sprintf("Modulo by zero at %s", e.Span.String()))
				return nil
			}
			return numberNode(mod(a, b), e)
		case lexer.Equal:
			return boolNode(a == b, e)
		case lexer.NotEqual:
			return boolNode(a != b, e)
		case lexer.Less:
			return boolNode(a < b, e)
		case lexer.LessEqual:
			return boolNode(a <= b, e)
		case lexer.Greater:
			return boolNode(a > b, e)
		case lexer.GreaterEqual:
			return boolNode(a >= b, e)
		}
		return nil
	}

	if left.Kind == hir.ExprBoolean && right.Kind == hir.ExprBoolean {
		a, b := left.BooleanValue, right.BooleanValue
		switch e.Op.Tag {
		case lexer.And:
			return boolNode(a && b, e)
		case lexer.Or:
			return boolNode(a || b, e)
		case lexer.Equal:
			return boolNode(a == b, e)
		case lexer.NotEqual:
			return boolNode(a != b, e)
		}
	}
	return nil
}

func (sp *SimplifyPass) tryFoldUnary(e *hir.Expression) *hir.Expression {
	operand := e.Left
	switch e.Op.Tag {
	case lexer.Plus:
		if operand.Kind == hir.ExprNumber {
			return numberNode(operand.NumberValue, e)
		}
	case lexer.Minus:
		if operand.Kind == hir.ExprNumber {
			return numberNode(-operand.NumberValue, e)
		}
	case lexer.Bang:
		if operand.Kind == hir.ExprBoolean {
			return boolNode(!operand.BooleanValue, e)
		}
	}
	return nil
}

func mod(a, b float64) float64 {
	r := a - b*float64(int64(a/b))
	return r
}

func numberNode(value float64, like *hir.Expression) *hir.Expression {
	return &hir.Expression{Kind: hir.ExprNumber, NumberValue: value, Span: like.Span, Type: like.Type}
}

func boolNode(value bool, like *hir.Expression) *hir.Expression {
	return &hir.Expression{Kind: hir.ExprBoolean, BooleanValue: value, Span: like.Span, Type: like.Type}
}

// tryAlgebraicSimplify applies identities that don't require both
// operands to be literals. Assumes normalizeCommutative already ran, so a
// literal operand (where one exists) is on the right.
func (sp *SimplifyPass) tryAlgebraicSimplify(e *hir.Expression) *hir.Expression {
	switch e.Kind {
	case hir.ExprUnaryOp:
		if e.Op.Tag == lexer.Bang && e.Left.Kind == hir.ExprUnaryOp && e.Left.Op.Tag == lexer.Bang {
			return reSpan(e.Left.Left, e)
		}
		return nil
	case hir.ExprBinaryOp:
	default:
		return nil
	}

	left, right := e.Left, e.Right

	if sameVariable(left, right) {
		switch e.Op.Tag {
		case lexer.Minus:
			return numberNode(0, e)
		case lexer.Equal:
			return boolNode(true, e)
		case lexer.NotEqual:
			return boolNode(false, e)
		case lexer.Less:
			return boolNode(false, e)
		case lexer.LessEqual:
			return boolNode(true, e)
		case lexer.Greater:
			return boolNode(false, e)
		case lexer.GreaterEqual:
			return boolNode(true, e)
		}
	}

	if right.Kind == hir.ExprNumber {
		switch {
		case e.Op.Tag == lexer.Plus && right.NumberValue == 0:
			return reSpan(left, e)
		case e.Op.Tag == lexer.Minus && right.NumberValue == 0:
			return reSpan(left, e)
		case e.Op.Tag == lexer.Star && right.NumberValue == 1:
			return reSpan(left, e)
		case e.Op.Tag == lexer.Star && right.NumberValue == 0:
			return numberNode(0, e)
		case e.Op.Tag == lexer.Slash && right.NumberValue == 1:
			return reSpan(left, e)
		}
	}

	if right.Kind == hir.ExprBoolean {
		switch {
		case e.Op.Tag == lexer.And && right.BooleanValue:
			return reSpan(left, e)
		case e.Op.Tag == lexer.And && !right.BooleanValue:
			return boolNode(false, e)
		case e.Op.Tag == lexer.Or && right.BooleanValue:
			return boolNode(true, e)
		case e.Op.Tag == lexer.Or && !right.BooleanValue:
			return reSpan(left, e)
		}
	}

	return nil
}

// reSpan returns a copy of node with like's Span and Type, preserving the
// invariant that a rewritten node's Span is contained in its
// pre-simplification ancestor's Span and its Type survives the rewrite.
func reSpan(node *hir.Expression, like *hir.Expression) *hir.Expression {
	copy := *node
	copy.Span = like.Span
	copy.Type = like.Type
	return &copy
}

func sameVariable(a, b *hir.Expression) bool {
	return a.Kind == hir.ExprVariable && b.Kind == hir.ExprVariable && a.Name == b.Name
}
