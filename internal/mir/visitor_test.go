package mir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orizon-lang/numc/internal/mir"
)

type operandCountingVisitor struct {
	mir.BaseVisitor
	operands int
}

func (v *operandCountingVisitor) VisitOperand(op *mir.Operand) {
	v.operands++
}

func TestWalkInstructionVisitsEveryArgument(t *testing.T) {
	fn := mir.NewMirFunction("f", mir.MirF64)
	block := fn.Arena.Get(fn.Entry)
	block.Instructions = append(block.Instructions, mir.Instruction{
		Dest: 2, Op: mir.OpAdd, Type: mir.MirF64,
		Args: []mir.Operand{mir.RegOperand(0), mir.RegOperand(1)},
	})
	block.Terminator = mir.Terminator{Kind: mir.TermRet, Value: func() *mir.Operand { o := mir.RegOperand(2); return &o }()}

	v := &operandCountingVisitor{}
	v.VisitFunction(fn)
	assert.Equal(t, 3, v.operands) // two instruction args + one ret value
}

func TestWalkTerminatorSkipsOperandForBareReturnAndUnreachable(t *testing.T) {
	v := &operandCountingVisitor{}
	v.VisitTerminator(&mir.Terminator{Kind: mir.TermRet})
	v.VisitTerminator(&mir.Terminator{Kind: mir.TermUnreachable})
	v.VisitTerminator(&mir.Terminator{Kind: mir.TermBr, Target: 1})
	assert.Equal(t, 0, v.operands)
}

func TestWalkFunctionVisitsEveryBlockInArenaOrder(t *testing.T) {
	fn := mir.NewMirFunction("f", mir.MirF64)
	fn.Arena.Alloc()
	fn.Arena.Alloc()

	var order []mir.BlockID
	ov := &recordingBlockVisitor{order: &order}
	ov.VisitFunction(fn)
	assert.Equal(t, []mir.BlockID{0, 1, 2}, order)
}

type recordingBlockVisitor struct {
	mir.BaseVisitor
	order *[]mir.BlockID
}

func (v *recordingBlockVisitor) VisitBasicBlock(id mir.BlockID, b *mir.BasicBlock) {
	*v.order = append(*v.order, id)
	mir.WalkBasicBlock(v, b)
}
