// Package passes holds the HIR analyses and transforms that run between
// parsing and lowering: counting, printing, constant folding / algebraic
// simplification, and typechecking.
package passes

import (
	"fmt"

	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/hir"
)

// CountingPass walks a Program tallying functions, statements,
// expressions and variables, emitting the four counts as info
// diagnostics at the end — grounded on the reference compiler's
// node-counting pass, kept verbatim as a worked example of the simplest
// possible Visitor implementation.
type CountingPass struct {
	NumFunctions  int
	NumStatements int
	NumExpression int
	NumVariables  int
	Diagnostics   *diagnostics.Collector
}

// NewCountingPass returns a ready-to-run CountingPass.
func NewCountingPass() *CountingPass {
	return &CountingPass{Diagnostics: diagnostics.New()}
}

// Run walks program and reports the four counts.
func (c *CountingPass) Run(program *hir.Program) {
	c.VisitProgram(program)
}

func (c *CountingPass) VisitProgram(p *hir.Program) {
	hir.WalkProgram(c, p)
	c.Diagnostics.Info(fmt.Sprintf("Functions: %d", c.NumFunctions))
	c.Diagnostics.Info(fmt.Sprintf("Statements: %d", c.NumStatements))
	c.Diagnostics.Info(fmt.Sprintf("Expressions: %d", c.NumExpression))
	c.Diagnostics.Info(fmt.Sprintf("Variables: %d", c.NumVariables))
}

func (c *CountingPass) VisitFunction(f *hir.Function) {
	c.NumFunctions++
	hir.WalkFunction(c, f)
}

func (c *CountingPass) VisitVariable(v *hir.Variable) {
	c.NumVariables++
	hir.WalkVariable(c, v)
}

func (c *CountingPass) VisitStatement(s *hir.Statement) {
	c.NumStatements++
	hir.WalkStatement(c, s)
}

func (c *CountingPass) VisitExpression(e *hir.Expression) {
	c.NumExpression++
	hir.WalkExpression(c, e)
}
