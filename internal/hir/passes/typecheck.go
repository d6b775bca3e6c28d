package passes

import (
	"fmt"

	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/hir"
	"github.com/orizon-lang/numc/internal/lexer"
	"github.com/orizon-lang/numc/internal/types"
)

// TypecheckPass resolves names against a stack of lexical scopes,
// eliminates Auto placeholders via inference, and checks every
// operator, call, and return against the language's type rules.
type TypecheckPass struct {
	scope         *hir.Scope
	currentReturn types.Type
	Diagnostics   *diagnostics.Collector
}

// NewTypecheckPass returns a ready-to-run TypecheckPass.
func NewTypecheckPass() *TypecheckPass {
	return &TypecheckPass{Diagnostics: diagnostics.New()}
}

func (tc *TypecheckPass) pushScope() {
	tc.scope = hir.NewScope(tc.scope)
}

func (tc *TypecheckPass) popScope() {
	tc.scope = tc.scope.Parent
}

// Run type-checks program in two phases: first the global scope (globals
// then bulk function registration, so forward references and recursion
// work), then each function body in its own scope.
func (tc *TypecheckPass) Run(program *hir.Program) {
	tc.pushScope()

	for _, g := range program.Globals {
		tc.checkGlobal(g)
	}
	for _, f := range program.Functions {
		tc.scope.DeclareFunction(f.Name, f)
	}
	for _, f := range program.Functions {
		tc.checkFunction(f)
	}

	tc.popScope()
}

func (tc *TypecheckPass) checkGlobal(v *hir.Variable) {
	tc.checkVariableDeclaration(v.Name, &v.Typ, v.Initializer, v.Span)
}

func (tc *TypecheckPass) checkFunction(f *hir.Function) {
	tc.pushScope()
	for _, param := range f.Params {
		tc.scope.Declare(param.Name, param)
	}
	tc.scope.DeclareFunction(f.Name, f)
	if f.Body != nil {
		f.Body.Scope = tc.scope
	}

	prevReturn := tc.currentReturn
	tc.currentReturn = f.ReturnType
	for _, stmt := range f.Body.Statements {
		tc.checkStatement(stmt)
	}
	tc.currentReturn = prevReturn

	tc.popScope()
}

// checkVariableDeclaration implements the `var x: T = e` rule shared by
// globals and local var statements: if T is Auto and e is present, infer
// T from e; Auto with no initializer is an error; otherwise e's type must
// be compatible with T.
func (tc *TypecheckPass) checkVariableDeclaration(name string, declared *types.Type, init *hir.Expression, site interface{ String() string }) {
	if init != nil {
		tc.checkExpression(init)
	}

	if declared.Base == types.Auto && !declared.IsPointer() {
		if init == nil {
			tc.Diagnostics.Error(fmt.Sprintf("%s: cannot infer type of '%s' with no initializer", site.String(), name))
			return
		}
		if init.Type != nil {
			*declared = *init.Type
		}
		return
	}

	if init != nil && init.Type != nil && !types.Compatible(*declared, *init.Type) {
		tc.Diagnostics.Error(fmt.Sprintf("%s: cannot initialize '%s' of type %s with value of type %s", site.String(), name, declared, init.Type))
	}
}

func (tc *TypecheckPass) checkStatement(s *hir.Statement) {
	switch s.Kind {
	case hir.StmtAssignment:
		tc.checkAssignment(s)
	case hir.StmtFunctionDefinition:
		tc.checkFunction(s.Func)
	case hir.StmtIf:
		tc.checkExpression(s.Condition)
		tc.requireBool(s.Condition, s.Span)
		tc.checkChildBlock(s.Then)
		if s.Else != nil {
			tc.checkChildBlock(s.Else)
		}
	case hir.StmtWhile:
		tc.checkExpression(s.Condition)
		tc.requireBool(s.Condition, s.Span)
		tc.checkChildBlock(s.Then)
	case hir.StmtBlock:
		tc.checkChildBlock(s.Body)
	case hir.StmtReturn:
		tc.checkReturn(s)
	case hir.StmtExpression:
		tc.checkExpression(s.Expr)
	}
}

func (tc *TypecheckPass) checkChildBlock(b *hir.Block) {
	tc.pushScope()
	b.Scope = tc.scope
	for _, stmt := range b.Statements {
		tc.checkStatement(stmt)
	}
	tc.popScope()
}

func (tc *TypecheckPass) checkAssignment(s *hir.Statement) {
	if s.DeclType != nil {
		if tc.scope.DeclaredHere(s.AssignName) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: redeclaration of '%s' in the same scope", s.Span.String(), s.AssignName))
			return
		}
		declared := *s.DeclType
		tc.checkVariableDeclaration(s.AssignName, &declared, s.AssignRHS, s.Span)
		*s.DeclType = declared
		tc.scope.Declare(s.AssignName, &hir.Variable{Name: s.AssignName, Typ: declared, Initializer: s.AssignRHS, Span: s.Span})
		return
	}

	// Plain `x = e`: x must already resolve in some enclosing scope.
	v, ok := tc.scope.Lookup(s.AssignName)
	if !ok {
		tc.Diagnostics.Error(fmt.Sprintf("%s: unknown variable '%s'", s.Span.String(), s.AssignName))
		if s.AssignRHS != nil {
			tc.checkExpression(s.AssignRHS)
		}
		return
	}
	if s.AssignRHS != nil {
		tc.checkExpression(s.AssignRHS)
		if s.AssignRHS.Type != nil && !types.Compatible(v.Typ, *s.AssignRHS.Type) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: cannot assign value of type %s to '%s' of type %s", s.Span.String(), s.AssignRHS.Type, s.AssignName, v.Typ))
		}
	}
}

func (tc *TypecheckPass) checkReturn(s *hir.Statement) {
	expected := tc.currentReturn
	if s.ReturnValue == nil {
		if !types.Compatible(expected, types.Base(types.Void)) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: bare return but function returns %s", s.Span.String(), expected))
		}
		return
	}
	tc.checkExpression(s.ReturnValue)
	if s.ReturnValue.Type != nil && !types.Compatible(expected, *s.ReturnValue.Type) {
		tc.Diagnostics.Error(fmt.Sprintf("%s: return type mismatch: expected %s, got %s", s.Span.String(), expected, s.ReturnValue.Type))
	}
}

func (tc *TypecheckPass) requireBool(cond *hir.Expression, site interface{ String() string }) {
	if cond.Type != nil && !types.Equal(*cond.Type, types.Base(types.Bool)) {
		tc.Diagnostics.Error(fmt.Sprintf("%s: condition must be Bool, got %s", site.String(), cond.Type))
	}
}

// checkExpression populates e.Type if and only if typechecking succeeds
// for e.
func (tc *TypecheckPass) checkExpression(e *hir.Expression) {
	switch e.Kind {
	case hir.ExprNumber:
		t := types.Base(types.F64)
		e.Type = &t
	case hir.ExprBoolean:
		t := types.Base(types.Bool)
		e.Type = &t
	case hir.ExprVariable:
		tc.checkVariableRef(e)
	case hir.ExprCall:
		tc.checkCall(e)
	case hir.ExprBinaryOp:
		tc.checkBinary(e)
	case hir.ExprUnaryOp:
		tc.checkUnary(e)
	}
}

func (tc *TypecheckPass) checkVariableRef(e *hir.Expression) {
	v, ok := tc.scope.Lookup(e.Name)
	if !ok {
		tc.Diagnostics.Error(fmt.Sprintf("%s: unknown variable '%s'", e.Span.String(), e.Name))
		return
	}
	t := v.Typ
	e.Type = &t
}

func (tc *TypecheckPass) checkCall(e *hir.Expression) {
	for _, arg := range e.Args {
		tc.checkExpression(arg)
	}
	fn, ok := tc.scope.LookupFunction(e.Callee)
	if !ok {
		tc.Diagnostics.Error(fmt.Sprintf("%s: unknown function '%s'", e.Span.String(), e.Callee))
		return
	}
	if len(fn.Params) != len(e.Args) {
		tc.Diagnostics.Error(fmt.Sprintf("%s: '%s' expects %d argument(s), got %d", e.Span.String(), e.Callee, len(fn.Params), len(e.Args)))
		return
	}
	for i, param := range fn.Params {
		arg := e.Args[i]
		if arg.Type != nil && !types.Compatible(param.Typ, *arg.Type) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: argument %d of '%s' expects %s, got %s", e.Span.String(), i+1, e.Callee, param.Typ, arg.Type))
		}
	}
	rt := fn.ReturnType
	e.Type = &rt
}

var comparisonOps = map[lexer.Tag]bool{
	lexer.Equal: true, lexer.NotEqual: true,
	lexer.Less: true, lexer.Greater: true, lexer.LessEqual: true, lexer.GreaterEqual: true,
}

var logicalOps = map[lexer.Tag]bool{lexer.And: true, lexer.Or: true}

var arithmeticOps = map[lexer.Tag]bool{
	lexer.Plus: true, lexer.Minus: true, lexer.Star: true, lexer.Slash: true, lexer.Percent: true,
}

func (tc *TypecheckPass) checkBinary(e *hir.Expression) {
	tc.checkExpression(e.Left)
	tc.checkExpression(e.Right)
	if e.Left.Type == nil || e.Right.Type == nil {
		return
	}

	switch {
	case logicalOps[e.Op.Tag]:
		boolType := types.Base(types.Bool)
		if !types.Equal(*e.Left.Type, boolType) || !types.Equal(*e.Right.Type, boolType) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: operator '%s' requires Bool operands", e.Span.String(), e.Op.Lexeme))
			return
		}
		e.Type = &boolType

	case comparisonOps[e.Op.Tag]:
		if !types.Compatible(*e.Left.Type, *e.Right.Type) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: incompatible operands for '%s'", e.Span.String(), e.Op.Lexeme))
			return
		}
		boolType := types.Base(types.Bool)
		e.Type = &boolType

	case arithmeticOps[e.Op.Tag]:
		if !types.Compatible(*e.Left.Type, *e.Right.Type) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: incompatible operands for '%s'", e.Span.String(), e.Op.Lexeme))
			return
		}
		result := *e.Left.Type
		if result.Base == types.Auto {
			result = *e.Right.Type
		}
		e.Type = &result
	}
}

func (tc *TypecheckPass) checkUnary(e *hir.Expression) {
	tc.checkExpression(e.Left)
	if e.Left.Type == nil {
		return
	}
	switch e.Op.Tag {
	case lexer.Bang:
		if !types.Equal(*e.Left.Type, types.Base(types.Bool)) {
			tc.Diagnostics.Error(fmt.Sprintf("%s: unary '!' requires a Bool operand", e.Span.String()))
			return
		}
		boolType := types.Base(types.Bool)
		e.Type = &boolType
	case lexer.Plus, lexer.Minus:
		result := *e.Left.Type
		e.Type = &result
	}
}
