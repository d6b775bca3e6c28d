package passes

import (
	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/mir"
)

// BlockSet is an unordered set of block ids, the representation
// dominator computation and phi validation both work in.
type BlockSet map[mir.BlockID]struct{}

func newBlockSet(ids ...mir.BlockID) BlockSet {
	s := make(BlockSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s BlockSet) clone() BlockSet {
	c := make(BlockSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

func (s BlockSet) equal(o BlockSet) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if _, ok := o[id]; !ok {
			return false
		}
	}
	return true
}

func intersect(a, b BlockSet) BlockSet {
	out := make(BlockSet)
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Dominators maps every block in a function to its dominator set.
type Dominators map[mir.BlockID]BlockSet

// Dominates reports whether d dominates n (every block dominates
// itself).
func (d Dominators) Dominates(dominator, n mir.BlockID) bool {
	_, ok := d[n][dominator]
	return ok
}

// SSAPass computes, per function, the dominator relation via an
// iterative data-flow fixpoint, and exposes the structural helpers
// (NewPhi, ValidatePhi) a fuller phi-insertion and renaming pass would
// build on. Phi insertion and renaming themselves are out of scope —
// see DESIGN.md.
type SSAPass struct {
	Diagnostics *diagnostics.Collector
}

// NewSSAPass returns a ready-to-run SSAPass.
func NewSSAPass() *SSAPass {
	return &SSAPass{Diagnostics: diagnostics.New()}
}

// Run computes the dominator sets for every function in program, keyed by
// function name.
func (sp *SSAPass) Run(program *mir.MirProgram) map[string]Dominators {
	out := make(map[string]Dominators, len(program.Functions))
	for _, f := range program.Functions {
		cfg := mir.NewCFGAnalysis(f)
		out[f.Name] = sp.ComputeDominators(f, cfg)
	}
	return out
}

// ComputeDominators runs the standard dominator fixpoint: dom(entry) =
// {entry}; every other reachable node starts at the universe of all
// blocks and narrows to {n} ∪ ⋂ dom(p) over its predecessors p, iterating
// until no node's set changes. Each iteration reads from a snapshot of
// the previous one rather than updating in place, so the result does not
// depend on block visitation order within a pass — termination is
// guaranteed because every update can only shrink a set.
func (sp *SSAPass) ComputeDominators(f *mir.MirFunction, cfg *mir.CFGAnalysis) Dominators {
	n := f.Arena.Len()
	all := make([]mir.BlockID, n)
	for i := 0; i < n; i++ {
		all[i] = mir.BlockID(i)
	}
	universe := newBlockSet(all...)

	dom := make(Dominators, n)
	for _, id := range all {
		if id == f.Entry {
			dom[id] = newBlockSet(f.Entry)
		} else {
			dom[id] = universe.clone()
		}
	}

	for {
		snapshot := make(Dominators, n)
		for id, set := range dom {
			snapshot[id] = set
		}

		changed := false
		for _, id := range all {
			if id == f.Entry {
				continue
			}
			preds := cfg.Predecessors[id]
			if len(preds) == 0 {
				continue
			}

			inter := snapshot[preds[0]].clone()
			for _, p := range preds[1:] {
				inter = intersect(inter, snapshot[p])
			}
			inter[id] = struct{}{}

			if !inter.equal(dom[id]) {
				dom[id] = inter
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	return dom
}

// NewPhi builds a phi instruction for dest with one Pair operand per
// incoming edge, in predecessor order: a phi's args are all
// Pair(predecessor, operand) and its count equals the predecessor count
// at insertion time.
func NewPhi(dest mir.Reg, typ mir.MirType, incoming []mir.Operand) mir.Instruction {
	return mir.Instruction{Dest: dest, Op: mir.OpCopy, Type: typ, Args: incoming}
}

// ValidatePhi reports whether inst has the shape a phi node must have for
// the given predecessor set: every argument is an OperandPair, and the
// argument count equals len(preds).
func ValidatePhi(inst mir.Instruction, preds []mir.BlockID) bool {
	if len(inst.Args) != len(preds) {
		return false
	}
	for _, arg := range inst.Args {
		if arg.Kind != mir.OperandPair {
			return false
		}
	}
	return true
}
