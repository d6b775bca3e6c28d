// Package main is the numc compiler's CLI entry point: a single
// "compiler <path>" command that runs the full pipeline over one source
// file and exits non-zero if any pass reported an error.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/numc/internal/driver"
)

var (
	noColor   bool
	stopAfter string
)

// stopAfterStages are the valid --stop-after values, in pipeline order.
var stopAfterStages = map[string]bool{
	driver.StageLex:       true,
	driver.StageParse:     true,
	driver.StageTypecheck: true,
	driver.StageSimplify:  true,
	driver.StageLower:     true,
	driver.StageSSA:       true,
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "compiler <path>",
		Short:         "numc — a static compiler front end and mid-end for the source language",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stopAfter != "" && !stopAfterStages[stopAfter] {
				return fmt.Errorf("invalid --stop-after stage %q (want one of lex, parse, typecheck, simplify, lower, ssa)", stopAfter)
			}

			path := args[0]
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			code := driver.Run(string(source), os.Stdout, os.Stderr, driver.Options{NoColor: noColor, StopAfter: stopAfter})
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized diagnostic output")
	cmd.Flags().StringVar(&stopAfter, "stop-after", "", "stop the pipeline after a stage (lex|parse|typecheck|simplify|lower|ssa)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
