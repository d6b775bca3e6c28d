package passes

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/hir"
)

// PrintPass renders the HIR tree as indented lines, one node per line,
// each ending with its span (the Program header, which has no span,
// excepted).
type PrintPass struct {
	indent      int
	lines       []string
	Diagnostics *diagnostics.Collector
}

// NewPrintPass returns a ready-to-run PrintPass.
func NewPrintPass() *PrintPass {
	return &PrintPass{Diagnostics: diagnostics.New()}
}

// Run walks program and returns the full rendered dump, one line per
// node, ready to be written to stdout verbatim.
func (pp *PrintPass) Run(program *hir.Program) string {
	pp.VisitProgram(program)
	return strings.Join(pp.lines, "\n")
}

func (pp *PrintPass) print(msg string) {
	pp.lines = append(pp.lines, strings.Repeat("  ", pp.indent)+msg)
}

func (pp *PrintPass) indentIn()  { pp.indent++ }
func (pp *PrintPass) indentOut() {
	if pp.indent > 0 {
		pp.indent--
	}
}

func (pp *PrintPass) VisitProgram(p *hir.Program) {
	pp.print(fmt.Sprintf("Program (%d globals, %d functions)", len(p.Globals), len(p.Functions)))
	pp.indentIn()
	hir.WalkProgram(pp, p)
	pp.indentOut()
}

func (pp *PrintPass) VisitFunction(f *hir.Function) {
	pp.print(fmt.Sprintf("Function: %s @ %s", f.Name, f.Span.String()))
	pp.indentIn()
	hir.WalkFunction(pp, f)
	pp.indentOut()
}

func (pp *PrintPass) VisitVariable(v *hir.Variable) {
	pp.print(fmt.Sprintf("Variable: %s @ %s", v.Name, v.Span.String()))
	pp.indentIn()
	hir.WalkVariable(pp, v)
	pp.indentOut()
}

func (pp *PrintPass) VisitStatement(s *hir.Statement) {
	switch s.Kind {
	case hir.StmtAssignment:
		pp.print(fmt.Sprintf("Assignment to: %s @ %s", s.AssignName, s.Span.String()))
	case hir.StmtFunctionDefinition:
		pp.print(fmt.Sprintf("FunctionDef: %s @ %s", s.Func.Name, s.Span.String()))
	case hir.StmtIf:
		pp.print(fmt.Sprintf("If statement @ %s", s.Span.String()))
	case hir.StmtWhile:
		pp.print(fmt.Sprintf("While loop @ %s", s.Span.String()))
	case hir.StmtBlock:
		pp.print(fmt.Sprintf("Block @ %s", s.Span.String()))
	case hir.StmtReturn:
		pp.print(fmt.Sprintf("Return @ %s", s.Span.String()))
	case hir.StmtExpression:
		pp.print(fmt.Sprintf("Expression statement @ %s", s.Span.String()))
	}
	pp.indentIn()
	hir.WalkStatement(pp, s)
	pp.indentOut()
}

func (pp *PrintPass) VisitExpression(e *hir.Expression) {
	switch e.Kind {
	case hir.ExprNumber:
		pp.print(fmt.Sprintf("Number: %v @ %s", e.NumberValue, e.Span.String()))
	case hir.ExprBoolean:
		pp.print(fmt.Sprintf("Boolean: %v @ %s", e.BooleanValue, e.Span.String()))
	case hir.ExprBinaryOp:
		pp.print(fmt.Sprintf("BinaryOp @ %s", e.Span.String()))
	case hir.ExprUnaryOp:
		pp.print(fmt.Sprintf("UnaryOp @ %s", e.Span.String()))
	case hir.ExprCall:
		pp.print(fmt.Sprintf("Call: %s(%d args) @ %s", e.Callee, len(e.Args), e.Span.String()))
	case hir.ExprVariable:
		pp.print(fmt.Sprintf("Variable ref: %s @ %s", e.Name, e.Span.String()))
	}
	pp.indentIn()
	hir.WalkExpression(pp, e)
	pp.indentOut()
}
