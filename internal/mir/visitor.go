package mir

// Visitor is the mutable MIR traversal contract, mirroring package hir's
// Visitor/Walk* split: a concrete pass overrides whichever hooks it
// cares about and calls the matching Walk* helper to continue the
// default structural recursion.
type Visitor interface {
	VisitProgram(p *MirProgram)
	VisitFunction(f *MirFunction)
	VisitBasicBlock(id BlockID, b *BasicBlock)
	VisitInstruction(inst *Instruction)
	VisitTerminator(term *Terminator)
	VisitOperand(op *Operand)
}

// BaseVisitor implements Visitor with exactly the default structural
// recursion, the same pattern hir.BaseVisitor follows.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(p *MirProgram)               { WalkProgram(BaseVisitor{}, p) }
func (BaseVisitor) VisitFunction(f *MirFunction)              { WalkFunction(BaseVisitor{}, f) }
func (BaseVisitor) VisitBasicBlock(id BlockID, b *BasicBlock) { WalkBasicBlock(BaseVisitor{}, b) }
func (BaseVisitor) VisitInstruction(inst *Instruction)        { WalkInstruction(BaseVisitor{}, inst) }
func (BaseVisitor) VisitTerminator(term *Terminator)          { WalkTerminator(BaseVisitor{}, term) }
func (BaseVisitor) VisitOperand(op *Operand)                  {}

// WalkProgram visits every function of p, in order.
func WalkProgram(v Visitor, p *MirProgram) {
	for _, f := range p.Functions {
		v.VisitFunction(f)
	}
}

// WalkFunction visits every block of f's arena, by ascending BlockID —
// stable since the arena is append-only and never reordered.
func WalkFunction(v Visitor, f *MirFunction) {
	for i := 0; i < f.Arena.Len(); i++ {
		id := BlockID(i)
		v.VisitBasicBlock(id, f.Arena.Get(id))
	}
}

// WalkBasicBlock visits b's phi nodes, its instructions, then its
// terminator, in that order — phi nodes are conceptually executed before
// a block's ordinary instructions.
func WalkBasicBlock(v Visitor, b *BasicBlock) {
	for i := range b.PhiNodes {
		v.VisitInstruction(&b.PhiNodes[i])
	}
	for i := range b.Instructions {
		v.VisitInstruction(&b.Instructions[i])
	}
	v.VisitTerminator(&b.Terminator)
}

// WalkInstruction visits every argument operand of inst.
func WalkInstruction(v Visitor, inst *Instruction) {
	for i := range inst.Args {
		v.VisitOperand(&inst.Args[i])
	}
}

// WalkTerminator visits whatever operand a terminator carries: BrIf's
// condition, or Ret's value if present.
func WalkTerminator(v Visitor, term *Terminator) {
	switch term.Kind {
	case TermBrIf:
		v.VisitOperand(&term.Cond)
	case TermRet:
		if term.Value != nil {
			v.VisitOperand(term.Value)
		}
	}
}
