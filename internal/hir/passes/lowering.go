package passes

import (
	"fmt"

	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/hir"
	"github.com/orizon-lang/numc/internal/lexer"
	"github.com/orizon-lang/numc/internal/mir"
	"github.com/orizon-lang/numc/internal/types"
)

// LoweringPass is a stateful structured walk that flattens a typed HIR
// Program into one MirFunction per HIR function. Like SimplifyPass and
// TypecheckPass it does not implement hir.Visitor: lowering needs to thread
// "current block" state through control-flow statements in a way the
// generic Walk* recursion doesn't model, so it walks the tree directly.
type LoweringPass struct {
	scopeStack []map[string]mir.Reg
	regCursor  mir.Reg

	currentFunction *mir.MirFunction
	currentBlock    mir.BlockID

	Diagnostics *diagnostics.Collector
}

// NewLoweringPass returns a ready-to-run LoweringPass.
func NewLoweringPass() *LoweringPass {
	return &LoweringPass{Diagnostics: diagnostics.New()}
}

// Run lowers program and returns the resulting MIR program.
func (lp *LoweringPass) Run(program *hir.Program) *mir.MirProgram {
	out := &mir.MirProgram{}

	lp.pushScope()
	for _, g := range program.Globals {
		lp.allocVariable(g.Name)
	}
	for _, f := range program.Functions {
		if fn := lp.lowerFunction(f); fn != nil {
			out.Functions = append(out.Functions, fn)
		}
	}
	lp.popScope()

	return out
}

func (lp *LoweringPass) pushScope() {
	lp.scopeStack = append(lp.scopeStack, make(map[string]mir.Reg))
}

func (lp *LoweringPass) popScope() {
	lp.scopeStack = lp.scopeStack[:len(lp.scopeStack)-1]
}

func (lp *LoweringPass) freshReg() mir.Reg {
	r := lp.regCursor
	lp.regCursor++
	return r
}

// allocVariable binds name to a fresh register in the innermost scope and
// returns it.
func (lp *LoweringPass) allocVariable(name string) mir.Reg {
	r := lp.freshReg()
	lp.scopeStack[len(lp.scopeStack)-1][name] = r
	return r
}

// lookupVariable walks innermost to outermost looking for name's register.
func (lp *LoweringPass) lookupVariable(name string) (mir.Reg, bool) {
	for i := len(lp.scopeStack) - 1; i >= 0; i-- {
		if r, ok := lp.scopeStack[i][name]; ok {
			return r, true
		}
	}
	return 0, false
}

func (lp *LoweringPass) allocBlock() mir.BlockID {
	return lp.currentFunction.Arena.Alloc()
}

func (lp *LoweringPass) block(id mir.BlockID) *mir.BasicBlock {
	return lp.currentFunction.Arena.Get(id)
}

func (lp *LoweringPass) emit(inst mir.Instruction) {
	b := lp.block(lp.currentBlock)
	b.Instructions = append(b.Instructions, inst)
}

func (lp *LoweringPass) setTerminator(id mir.BlockID, term mir.Terminator) {
	lp.block(id).Terminator = term
}

// terminateIfUnreachable installs term on id only if its terminator is
// still the Unreachable placeholder, distinguishing "control fell
// through" from "a nested return already terminated this block".
func (lp *LoweringPass) terminateIfUnreachable(id mir.BlockID, term mir.Terminator) {
	if lp.block(id).Terminator.Kind == mir.TermUnreachable {
		lp.setTerminator(id, term)
	}
}

// convertType maps an HIR Type onto its MIR representation. Any Auto
// reaching here is an invariant violation — typechecking must have
// already eliminated it or diagnosed an error that aborted the pipeline
// before lowering runs.
func (lp *LoweringPass) convertType(t types.Type) mir.MirType {
	if t.IsPointer() {
		lp.Diagnostics.Warn("pointer type reached lowering; representing as a pointer-sized value")
		return mir.MirPointer
	}
	switch t.Base {
	case types.F8:
		return mir.MirF8
	case types.F16:
		return mir.MirF16
	case types.F32:
		return mir.MirF32
	case types.F64:
		return mir.MirF64
	case types.Bool:
		return mir.MirI1
	case types.Void:
		return mir.MirVoid
	case types.Auto:
		panic("lowering: Auto type reached HIR->MIR lowering")
	default:
		panic(fmt.Sprintf("lowering: unhandled base type %v", t.Base))
	}
}

func (lp *LoweringPass) lowerFunction(f *hir.Function) *mir.MirFunction {
	lp.pushScope()

	var params []mir.FunctionParam
	for _, p := range f.Params {
		reg := lp.allocVariable(p.Name)
		params = append(params, mir.FunctionParam{Reg: reg, Type: lp.convertType(p.Typ)})
	}

	fn := mir.NewMirFunction(f.Name, lp.convertType(f.ReturnType))
	fn.Params = params

	prevFunc, prevBlock := lp.currentFunction, lp.currentBlock
	lp.currentFunction = fn
	lp.currentBlock = fn.Entry

	if f.Body != nil {
		for _, stmt := range f.Body.Statements {
			lp.lowerStatement(stmt)
		}
	}

	lp.currentFunction, lp.currentBlock = prevFunc, prevBlock
	lp.popScope()
	return fn
}

func (lp *LoweringPass) lowerStatement(s *hir.Statement) {
	switch s.Kind {
	case hir.StmtAssignment:
		lp.lowerAssignment(s)
	case hir.StmtFunctionDefinition:
		// A function definition nested in a block produces no MIR; only
		// the top-level functions in Program.Functions are lowered.
	case hir.StmtIf:
		lp.lowerIf(s)
	case hir.StmtWhile:
		lp.lowerWhile(s)
	case hir.StmtBlock:
		lp.lowerBlock(s.Body)
	case hir.StmtReturn:
		lp.lowerReturn(s)
	case hir.StmtExpression:
		lp.lowerExpression(s.Expr)
	}
}

func (lp *LoweringPass) lowerBlock(b *hir.Block) {
	if b == nil {
		return
	}
	lp.pushScope()

	// Pre-bind every symbol the typechecker attached to this block's
	// scope so forward references within the block find stable
	// registers.
	if b.Scope != nil {
		for name := range b.Scope.Symbols {
			lp.allocVariable(name)
		}
	}

	for _, stmt := range b.Statements {
		lp.lowerStatement(stmt)
	}
	lp.popScope()
}

func (lp *LoweringPass) lowerAssignment(s *hir.Statement) {
	if s.AssignRHS == nil {
		if _, ok := lp.lookupVariable(s.AssignName); !ok {
			lp.allocVariable(s.AssignName)
		}
		return
	}

	value := lp.lowerExpression(s.AssignRHS)
	if value == nil {
		return
	}

	dest, ok := lp.lookupVariable(s.AssignName)
	if !ok {
		dest = lp.allocVariable(s.AssignName)
	}

	var mt mir.MirType
	if s.AssignRHS.Type != nil {
		mt = lp.convertType(*s.AssignRHS.Type)
	}
	lp.emit(mir.Instruction{Dest: dest, Op: mir.OpCopy, Type: mt, Args: []mir.Operand{*value}})
}

func (lp *LoweringPass) lowerReturn(s *hir.Statement) {
	var value *mir.Operand
	if s.ReturnValue != nil {
		value = lp.lowerExpression(s.ReturnValue)
	}
	lp.setTerminator(lp.currentBlock, mir.Terminator{Kind: mir.TermRet, Value: value})
}

func (lp *LoweringPass) lowerWhile(s *hir.Statement) {
	cond := lp.allocBlock()
	then := lp.allocBlock()
	merge := lp.allocBlock()

	lp.setTerminator(lp.currentBlock, mir.Terminator{Kind: mir.TermBr, Target: cond})

	lp.currentBlock = cond
	condOp := lp.lowerExpression(s.Condition)
	condVal := mir.ImmBool(true)
	if condOp != nil {
		condVal = *condOp
	}
	lp.setTerminator(cond, mir.Terminator{Kind: mir.TermBrIf, Cond: condVal, Then: then, Else: merge})

	lp.currentBlock = then
	lp.setTerminator(then, mir.Terminator{Kind: mir.TermBr, Target: cond})
	lp.lowerBlock(s.Then)
	lp.terminateIfUnreachable(lp.currentBlock, mir.Terminator{Kind: mir.TermBr, Target: cond})

	lp.currentBlock = merge
}

func (lp *LoweringPass) lowerIf(s *hir.Statement) {
	then := lp.allocBlock()
	els := lp.allocBlock()
	merge := lp.allocBlock()

	condOp := lp.lowerExpression(s.Condition)
	condVal := mir.ImmBool(true)
	if condOp != nil {
		condVal = *condOp
	}
	lp.setTerminator(lp.currentBlock, mir.Terminator{Kind: mir.TermBrIf, Cond: condVal, Then: then, Else: els})

	lp.setTerminator(then, mir.Terminator{Kind: mir.TermBr, Target: merge})
	lp.currentBlock = then
	lp.lowerBlock(s.Then)
	lp.terminateIfUnreachable(lp.currentBlock, mir.Terminator{Kind: mir.TermBr, Target: merge})

	lp.setTerminator(els, mir.Terminator{Kind: mir.TermBr, Target: merge})
	lp.currentBlock = els
	if s.Else != nil {
		lp.lowerBlock(s.Else)
	}
	lp.terminateIfUnreachable(lp.currentBlock, mir.Terminator{Kind: mir.TermBr, Target: merge})

	lp.currentBlock = merge
}

// lowerExpression lowers e bottom-up and returns the Operand holding its
// value, or nil if a diagnosed error prevented lowering.
func (lp *LoweringPass) lowerExpression(e *hir.Expression) *mir.Operand {
	switch e.Kind {
	case hir.ExprNumber:
		op := mir.ImmF64(e.NumberValue)
		return &op
	case hir.ExprBoolean:
		op := mir.ImmBool(e.BooleanValue)
		return &op
	case hir.ExprVariable:
		return lp.lowerVariableRef(e)
	case hir.ExprBinaryOp:
		return lp.lowerBinary(e)
	case hir.ExprUnaryOp:
		return lp.lowerUnary(e)
	case hir.ExprCall:
		return lp.lowerCall(e)
	default:
		return nil
	}
}

func (lp *LoweringPass) lowerVariableRef(e *hir.Expression) *mir.Operand {
	reg, ok := lp.lookupVariable(e.Name)
	if !ok {
		lp.Diagnostics.Error(fmt.Sprintf("%s: use of unresolved identifier '%s' in lowering", e.Span.String(), e.Name))
		return nil
	}
	op := mir.RegOperand(reg)
	return &op
}

var binaryOpcodes = map[lexer.Tag]mir.Opcode{
	lexer.Plus:         mir.OpAdd,
	lexer.Minus:        mir.OpSub,
	lexer.Star:         mir.OpMul,
	lexer.Slash:        mir.OpDiv,
	lexer.Percent:      mir.OpMod,
	lexer.Equal:        mir.OpEq,
	lexer.NotEqual:     mir.OpNe,
	lexer.Less:         mir.OpLt,
	lexer.LessEqual:    mir.OpLe,
	lexer.Greater:      mir.OpGt,
	lexer.GreaterEqual: mir.OpGe,
}

func (lp *LoweringPass) lowerBinary(e *hir.Expression) *mir.Operand {
	left := lp.lowerExpression(e.Left)
	right := lp.lowerExpression(e.Right)
	if left == nil || right == nil {
		return nil
	}

	opcode, ok := binaryOpcodes[e.Op.Tag]
	if !ok {
		lp.Diagnostics.Error(fmt.Sprintf("%s: unsupported binary operator '%s'", e.Span.String(), e.Op.Lexeme))
		return nil
	}

	dest := lp.freshReg()
	var mt mir.MirType
	if e.Type != nil {
		mt = lp.convertType(*e.Type)
	}
	lp.emit(mir.Instruction{Dest: dest, Op: opcode, Type: mt, Args: []mir.Operand{*left, *right}})
	op := mir.RegOperand(dest)
	return &op
}

// lowerUnary encodes unary `-e` as `Sub(0.0, e)` and unary `!e` as
// `Eq(0.0, e)` of type I1; MIR has no dedicated Not opcode.
func (lp *LoweringPass) lowerUnary(e *hir.Expression) *mir.Operand {
	operand := lp.lowerExpression(e.Left)
	if operand == nil {
		return nil
	}

	switch e.Op.Tag {
	case lexer.Minus:
		dest := lp.freshReg()
		var mt mir.MirType
		if e.Left.Type != nil {
			mt = lp.convertType(*e.Left.Type)
		}
		lp.emit(mir.Instruction{Dest: dest, Op: mir.OpSub, Type: mt, Args: []mir.Operand{mir.ImmF64(0.0), *operand}})
		op := mir.RegOperand(dest)
		return &op
	case lexer.Plus:
		return operand
	case lexer.Bang:
		dest := lp.freshReg()
		lp.emit(mir.Instruction{Dest: dest, Op: mir.OpEq, Type: mir.MirI1, Args: []mir.Operand{mir.ImmF64(0.0), *operand}})
		op := mir.RegOperand(dest)
		return &op
	default:
		lp.Diagnostics.Error(fmt.Sprintf("%s: unsupported unary operator '%s'", e.Span.String(), e.Op.Lexeme))
		return nil
	}
}

func (lp *LoweringPass) lowerCall(e *hir.Expression) *mir.Operand {
	args := []mir.Operand{mir.LabelOperand(e.Callee)}
	for _, a := range e.Args {
		v := lp.lowerExpression(a)
		if v == nil {
			return nil
		}
		args = append(args, *v)
	}

	dest := lp.freshReg()
	var mt mir.MirType
	if e.Type != nil {
		mt = lp.convertType(*e.Type)
	}
	lp.emit(mir.Instruction{Dest: dest, Op: mir.OpCall, Type: mt, Args: args})
	op := mir.RegOperand(dest)
	return &op
}
