// Package hir defines the tree-shaped, typed, span-carrying intermediate
// representation the parser builds and the HIR passes mutate in place:
// Program, Function, Variable, Statement, Expression and the lexical
// Scope they're resolved against.
package hir

import (
	"github.com/orizon-lang/numc/internal/lexer"
	"github.com/orizon-lang/numc/internal/span"
	"github.com/orizon-lang/numc/internal/types"
)

// Scope is one level of a lexical scope stack, attached to a Block and
// shared between the typechecker (creator) and the lowering pass
// (consumer) as a plain pointer.
type Scope struct {
	Parent    *Scope
	Symbols   map[string]*Variable
	Functions map[string]*Function
}

// NewScope allocates an empty scope chained to parent (nil for the
// outermost/global scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, Symbols: make(map[string]*Variable), Functions: make(map[string]*Function)}
}

// DeclaredHere reports whether name is already bound in this exact scope.
func (s *Scope) DeclaredHere(name string) bool {
	_, ok := s.Symbols[name]
	return ok
}

// Lookup walks innermost to outermost looking for a variable binding.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if v, ok := sc.Symbols[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// LookupFunction walks innermost to outermost looking for a callable.
func (s *Scope) LookupFunction(name string) (*Function, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if f, ok := sc.Functions[name]; ok {
			return f, true
		}
	}
	return nil, false
}

// Declare binds name to v in this scope.
func (s *Scope) Declare(name string, v *Variable) { s.Symbols[name] = v }

// DeclareFunction binds name to f in this scope.
func (s *Scope) DeclareFunction(name string, f *Function) { s.Functions[name] = f }

// Variable is a named, typed binding with an optional initializer.
type Variable struct {
	Name        string
	Typ         types.Type
	Initializer *Expression // nil if absent
	Span        span.Span
}

// Function is a named, typed callable.
type Function struct {
	Name       string
	Params     []*Variable
	ReturnType types.Type
	Body       *Block
	Span       span.Span
}

// Program is the parsed-and-classified top level: global variable
// declarations and function definitions, in source order.
type Program struct {
	Globals   []*Variable
	Functions []*Function
}

// Block is an ordered sequence of statements with an optional back
// reference to the Scope the typechecker attached to it.
type Block struct {
	Statements []*Statement
	Scope      *Scope
	Span       span.Span
}

// ExpressionKind discriminates the Expression sum type.
type ExpressionKind int

const (
	ExprNumber ExpressionKind = iota
	ExprBoolean
	ExprBinaryOp
	ExprUnaryOp
	ExprCall
	ExprVariable
)

func (k ExpressionKind) String() string {
	switch k {
	case ExprNumber:
		return "Number"
	case ExprBoolean:
		return "Boolean"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprUnaryOp:
		return "UnaryOp"
	case ExprCall:
		return "Call"
	case ExprVariable:
		return "Variable"
	default:
		return "Unknown"
	}
}

// Expression is the HIR expression sum. Exactly the fields relevant to
// Kind are populated; every Expression carries a Span and, once
// typechecking succeeds for it, a non-nil Type.
type Expression struct {
	Kind ExpressionKind
	Span span.Span
	Type *types.Type // nil until typechecked

	NumberValue  float64 // ExprNumber
	BooleanValue bool    // ExprBoolean

	Left  *Expression // ExprBinaryOp, ExprUnaryOp (the operand)
	Right *Expression // ExprBinaryOp
	Op    lexer.Token // ExprBinaryOp, ExprUnaryOp: operator token

	Callee string        // ExprCall
	Args   []*Expression // ExprCall

	Name string // ExprVariable
}

// StatementKind discriminates the Statement sum type.
type StatementKind int

const (
	StmtAssignment StatementKind = iota
	StmtFunctionDefinition
	StmtIf
	StmtWhile
	StmtBlock
	StmtReturn
	StmtExpression
)

func (k StatementKind) String() string {
	switch k {
	case StmtAssignment:
		return "Assignment"
	case StmtFunctionDefinition:
		return "FunctionDefinition"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	case StmtBlock:
		return "Block"
	case StmtReturn:
		return "Return"
	case StmtExpression:
		return "Expression"
	default:
		return "Unknown"
	}
}

// Statement is the HIR statement sum.
type Statement struct {
	Kind StatementKind
	Span span.Span

	// StmtAssignment: name, optional declared type, optional RHS.
	AssignName string
	DeclType   *types.Type // nil if no explicit annotation was parsed
	AssignRHS  *Expression // nil if omitted

	// StmtFunctionDefinition
	Func *Function

	// StmtIf
	Condition *Expression
	Then      *Block
	Else      *Block // nil if no else clause

	// StmtWhile reuses Condition and Then as the loop condition/body.

	// StmtBlock
	Body *Block

	// StmtReturn
	ReturnValue *Expression // nil for a bare `return`

	// StmtExpression
	Expr *Expression
}
