// Package driver orders the pass pipeline's execution and gates progress
// on each pass's diagnostics.
package driver

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/orizon-lang/numc/internal/diagnostics"
	"github.com/orizon-lang/numc/internal/hir/passes"
	"github.com/orizon-lang/numc/internal/lexer"
	mirpasses "github.com/orizon-lang/numc/internal/mir/passes"
	"github.com/orizon-lang/numc/internal/parser"
)

// Options configures a single Run.
type Options struct {
	// NoColor forces plain, uncolored diagnostic output even when stderr
	// is a TTY. fatih/color already auto-detects non-TTY output; this
	// flag is for explicit opt-out (the cmd/compiler --no-color flag).
	NoColor bool

	// StopAfter halts the pipeline right after the named stage instead of
	// running it to completion, for debugging a single stage in
	// isolation. The zero value ("") runs the full pipeline. Recognized
	// values: "lex", "parse", "typecheck", "simplify", "lower", "ssa".
	StopAfter string
}

// Pipeline stage names recognized by Options.StopAfter.
const (
	StageLex       = "lex"
	StageParse     = "parse"
	StageTypecheck = "typecheck"
	StageSimplify  = "simplify"
	StageLower     = "lower"
	StageSSA       = "ssa"
)

// Run executes the full pipeline — lex, parse, typecheck, simplify,
// count, HIR print, HIR->MIR lowering, SSA (dominators), MIR print —
// aborting right after any stage that leaves diagnostics.HasErrors()
// true. Error and warning lines go to stderr (`Error: …`, `Warning: …`);
// info lines and the HIR/MIR dumps go to stdout (`Info: …`, then the
// dumps). It returns the process exit code: 0 on success, 1 if any
// stage reported an error.
//
// Lex and parse errors are fatal on the spot (the first syntax error
// aborts with its position); every later stage follows "collect then
// gate", draining its full diagnostic collector before the driver
// decides whether to continue.
func Run(source string, stdout, stderr io.Writer, opts Options) int {
	errColor := color.New(color.FgRed)
	warnColor := color.New(color.FgYellow)
	if opts.NoColor {
		errColor.DisableColor()
		warnColor.DisableColor()
	}

	tokens, lexErr := lexer.Lex(source)
	if lexErr != nil {
		errColor.Fprintf(stderr, "Error: %s\n", lexErr.Error())
		return 1
	}
	if opts.StopAfter == StageLex {
		return 0
	}

	program, parseErr := parser.Parse(tokens)
	if parseErr != nil {
		errColor.Fprintf(stderr, "Error: %s\n", parseErr.Error())
		return 1
	}
	if opts.StopAfter == StageParse {
		return 0
	}

	drain := func(c *diagnostics.Collector) bool {
		for _, e := range c.Errors {
			errColor.Fprintf(stderr, "Error: %s\n", e)
		}
		for _, w := range c.Warnings {
			warnColor.Fprintf(stderr, "Warning: %s\n", w)
		}
		for _, i := range c.Infos {
			fmt.Fprintf(stdout, "Info: %s\n", i)
		}
		for _, d := range c.Debugs {
			fmt.Fprintf(stdout, "Debug: %s\n", d)
		}
		return c.HasErrors()
	}

	// HIR passes. typecheck runs before simplify: simplify preserves a
	// rewritten node's Type from the node it replaces, which requires
	// types already be assigned. See DESIGN.md for the full rationale.
	tc := passes.NewTypecheckPass()
	tc.Run(program)
	if drain(tc.Diagnostics) {
		return 1
	}
	if opts.StopAfter == StageTypecheck {
		return 0
	}

	simplify := passes.NewSimplifyPass()
	simplify.Run(program)
	if drain(simplify.Diagnostics) {
		return 1
	}
	if opts.StopAfter == StageSimplify {
		return 0
	}

	count := passes.NewCountingPass()
	count.Run(program)
	drain(count.Diagnostics)

	printPass := passes.NewPrintPass()
	hirDump := printPass.Run(program)
	drain(printPass.Diagnostics)
	fmt.Fprintln(stdout, hirDump)

	// HIR -> MIR lowering.
	lowering := passes.NewLoweringPass()
	mirProgram := lowering.Run(program)
	if drain(lowering.Diagnostics) {
		return 1
	}
	if opts.StopAfter == StageLower {
		return 0
	}

	// CFG + SSA (dominators).
	ssa := mirpasses.NewSSAPass()
	ssa.Run(mirProgram)
	drain(ssa.Diagnostics)
	if opts.StopAfter == StageSSA {
		return 0
	}

	mirPrint := mirpasses.NewPrintPass()
	mirDump := mirPrint.Run(mirProgram)
	drain(mirPrint.Diagnostics)
	fmt.Fprintln(stdout, mirDump)

	return 0
}
