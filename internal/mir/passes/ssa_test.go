package passes_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/numc/internal/mir"
	"github.com/orizon-lang/numc/internal/mir/passes"
)

func diffBlockSet(t *testing.T, got, want passes.BlockSet) string {
	t.Helper()
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}

// buildDiamond builds entry -> {then, else} -> merge.
func buildDiamond(t *testing.T) *mir.MirFunction {
	t.Helper()
	fn := mir.NewMirFunction("f", mir.MirF64)
	then := fn.Arena.Alloc()
	els := fn.Arena.Alloc()
	merge := fn.Arena.Alloc()

	fn.Arena.Get(fn.Entry).Terminator = mir.Terminator{Kind: mir.TermBrIf, Then: then, Else: els}
	fn.Arena.Get(then).Terminator = mir.Terminator{Kind: mir.TermBr, Target: merge}
	fn.Arena.Get(els).Terminator = mir.Terminator{Kind: mir.TermBr, Target: merge}
	fn.Arena.Get(merge).Terminator = mir.Terminator{Kind: mir.TermRet}
	return fn
}

func TestEntryDominatesOnlyItselfWithNoPredecessors(t *testing.T) {
	fn := mir.NewMirFunction("f", mir.MirF64)
	fn.Arena.Get(fn.Entry).Terminator = mir.Terminator{Kind: mir.TermRet}
	cfg := mir.NewCFGAnalysis(fn)

	sp := passes.NewSSAPass()
	dom := sp.ComputeDominators(fn, cfg)

	require.Contains(t, dom, fn.Entry)
	assert.True(t, dom.Dominates(fn.Entry, fn.Entry))
	assert.Len(t, dom[fn.Entry], 1)
}

func TestEveryBlockDominatesItself(t *testing.T) {
	fn := buildDiamond(t)
	cfg := mir.NewCFGAnalysis(fn)
	dom := passes.NewSSAPass().ComputeDominators(fn, cfg)

	for i := 0; i < fn.Arena.Len(); i++ {
		id := mir.BlockID(i)
		assert.True(t, dom.Dominates(id, id), "block %d should dominate itself", id)
	}
}

func TestEntryDominatesEveryReachableBlock(t *testing.T) {
	fn := buildDiamond(t)
	cfg := mir.NewCFGAnalysis(fn)
	dom := passes.NewSSAPass().ComputeDominators(fn, cfg)

	for i := 0; i < fn.Arena.Len(); i++ {
		id := mir.BlockID(i)
		assert.True(t, dom.Dominates(fn.Entry, id), "entry should dominate block %d", id)
	}
}

// TestMergeBlockIsDominatedOnlyByEntryAndItself checks the diamond shape:
// the merge block is reachable from two disjoint paths, so neither arm
// block dominates it — only entry (on every path) and merge itself do.
func TestMergeBlockIsDominatedOnlyByEntryAndItself(t *testing.T) {
	fn := buildDiamond(t)
	cfg := mir.NewCFGAnalysis(fn)
	dom := passes.NewSSAPass().ComputeDominators(fn, cfg)

	entryTerm := fn.Arena.Get(fn.Entry).Terminator
	then := entryTerm.Then
	thenTerm := fn.Arena.Get(then).Terminator
	merge := thenTerm.Target

	want := passes.BlockSet{fn.Entry: struct{}{}, merge: struct{}{}}
	if diff := diffBlockSet(t, dom[merge], want); diff != "" {
		t.Errorf("merge dominator set mismatch (-want +got):\n%s", diff)
	}
}

func TestRunComputesDominatorsForEveryFunctionByName(t *testing.T) {
	fn := buildDiamond(t)
	program := &mir.MirProgram{Functions: []*mir.MirFunction{fn}}
	out := passes.NewSSAPass().Run(program)

	require.Contains(t, out, "f")
	assert.True(t, out["f"].Dominates(fn.Entry, fn.Entry))
}

func TestNewPhiProducesOneOperandPerIncomingEdgeInPredecessorOrder(t *testing.T) {
	incoming := []mir.Operand{mir.PairOperand(0, mir.ImmF64(1)), mir.PairOperand(1, mir.ImmF64(2))}
	inst := passes.NewPhi(3, mir.MirF64, incoming)
	assert.Equal(t, mir.Reg(3), inst.Dest)
	assert.Equal(t, incoming, inst.Args)
}

func TestValidatePhiRejectsWrongArgCountOrNonPairOperand(t *testing.T) {
	preds := []mir.BlockID{0, 1}

	valid := passes.NewPhi(2, mir.MirF64, []mir.Operand{
		mir.PairOperand(0, mir.ImmF64(1)), mir.PairOperand(1, mir.ImmF64(2)),
	})
	assert.True(t, passes.ValidatePhi(valid, preds))

	tooFew := passes.NewPhi(2, mir.MirF64, []mir.Operand{mir.PairOperand(0, mir.ImmF64(1))})
	assert.False(t, passes.ValidatePhi(tooFew, preds))

	notPair := mir.Instruction{Dest: 2, Op: mir.OpCopy, Args: []mir.Operand{mir.RegOperand(0), mir.RegOperand(1)}}
	assert.False(t, passes.ValidatePhi(notPair, preds))
}
