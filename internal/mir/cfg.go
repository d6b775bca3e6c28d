package mir

// CFGAnalysis holds the predecessor/successor maps derived from a
// MirFunction's terminators, plus the function's entry block.
type CFGAnalysis struct {
	Entry        BlockID
	Predecessors map[BlockID][]BlockID
	Successors   map[BlockID][]BlockID
}

// NewCFGAnalysis computes the predecessor/successor maps for function.
// Every block gets an initialized (possibly empty) entry in both maps
// before the single pass over terminators runs, so callers never need a
// presence check. Duplicate edges from a BrIf whose then and else targets
// coincide are preserved rather than deduplicated.
func NewCFGAnalysis(function *MirFunction) *CFGAnalysis {
	cfg := &CFGAnalysis{
		Entry:        function.Entry,
		Predecessors: make(map[BlockID][]BlockID),
		Successors:   make(map[BlockID][]BlockID),
	}

	n := function.Arena.Len()
	for i := 0; i < n; i++ {
		id := BlockID(i)
		cfg.Predecessors[id] = nil
		cfg.Successors[id] = nil
	}

	for i := 0; i < n; i++ {
		id := BlockID(i)
		term := function.Arena.Get(id).Terminator
		switch term.Kind {
		case TermBr:
			cfg.addEdge(id, term.Target)
		case TermBrIf:
			cfg.addEdge(id, term.Then)
			cfg.addEdge(id, term.Else)
		case TermRet, TermUnreachable:
			// No outgoing CFG edges.
		}
	}

	return cfg
}

func (cfg *CFGAnalysis) addEdge(from, to BlockID) {
	cfg.Successors[from] = append(cfg.Successors[from], to)
	cfg.Predecessors[to] = append(cfg.Predecessors[to], from)
}
