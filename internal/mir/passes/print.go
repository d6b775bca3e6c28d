// Package passes holds the MIR analyses that run after lowering: the
// textual dump and the dominator/SSA-structure pass.
package passes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/mir"
)

// PrintPass renders a MirProgram as a program header, per-function
// signature, per-block label, per-instruction three-address line, and a
// terminator line.
type PrintPass struct {
	indent      int
	lines       []string
	Diagnostics *diagnostics.Collector
}

// NewPrintPass returns a ready-to-run PrintPass.
func NewPrintPass() *PrintPass {
	return &PrintPass{Diagnostics: diagnostics.New()}
}

// Run walks program and returns the full rendered dump, ready to write to
// stdout verbatim.
func (pp *PrintPass) Run(program *mir.MirProgram) string {
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

func (pp *PrintPass) VisitProgram(p *mir.MirProgram) {
	pp.print(fmt.Sprintf("=== MIR Program (%d functions) ===", len(p.Functions)))
	mir.WalkProgram(pp, p)
}

func (pp *PrintPass) VisitFunction(f *mir.MirFunction) {
	pp.print(fmt.Sprintf("fn %s(%d params) -> %s:", f.Name, len(f.Params), f.ReturnType))
	pp.indentIn()
	mir.WalkFunction(pp, f)
	pp.indentOut()
}

func (pp *PrintPass) VisitBasicBlock(id mir.BlockID, b *mir.BasicBlock) {
	pp.print(fmt.Sprintf("block%d:", id))
	pp.indentIn()
	mir.WalkBasicBlock(pp, b)
	pp.indentOut()
}

func (pp *PrintPass) VisitInstruction(inst *mir.Instruction) {
	args := make([]string, len(inst.Args))
	for i, a := range inst.Args {
		args[i] = formatOperand(a)
	}
	pp.print(fmt.Sprintf("r%d = %s %s [%s]", inst.Dest, inst.Op, inst.Type, strings.Join(args, ", ")))
}

func (pp *PrintPass) VisitTerminator(term *mir.Terminator) {
	switch term.Kind {
	case mir.TermBr:
		pp.print(fmt.Sprintf("br block%d", term.Target))
	case mir.TermBrIf:
		pp.print(fmt.Sprintf("br_if %s, block%d, block%d", formatOperand(term.Cond), term.Then, term.Else))
	case mir.TermRet:
		if term.Value != nil {
			pp.print(fmt.Sprintf("ret %s", formatOperand(*term.Value)))
		} else {
			pp.print("ret")
		}
	case mir.TermUnreachable:
		pp.print("unreachable")
	}
}

func (pp *PrintPass) VisitOperand(op *mir.Operand) {
	// Operands render inline as part of their owning instruction or
	// terminator; nothing to do standalone.
}

// formatOperand renders op as "rK" for registers, bare numbers/booleans
// for immediates, "@name" for labels, and "[blockK, operand]" for phi
// pairs.
func formatOperand(op mir.Operand) string {
	switch op.Kind {
	case mir.OperandReg:
		return fmt.Sprintf("r%d", op.Reg)
	case mir.OperandImmI64:
		return strconv.FormatInt(op.ImmI64, 10)
	case mir.OperandImmF64:
		return strconv.FormatFloat(op.ImmF64, 'g', -1, 64)
	case mir.OperandImmBool:
		return strconv.FormatBool(op.ImmBool)
	case mir.OperandLabel:
		return "@" + op.Label
	case mir.OperandPair:
		return fmt.Sprintf("[block%d, %s]", op.PairFrom, formatOperand(*op.PairVal))
	default:
		return "?"
	}
}
