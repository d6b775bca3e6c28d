package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orizon-lang/numc/internal/hir/passes"
)

func TestCountingPassTalliesFunctionsStatementsAndExpressions(t *testing.T) {
	program := parseProgram(t, "fn add(a: f64, b: f64) -> f64 { return a + b }")
	c := passes.NewCountingPass()
	c.Run(program)

	assert.Equal(t, 1, c.NumFunctions)
	assert.Equal(t, 2, c.NumVariables) // the two parameters
	assert.Equal(t, 1, c.NumStatements)
	assert.Equal(t, 3, c.NumExpression) // a + b, a, b
	assert.Len(t, c.Diagnostics.Infos, 4)
}
