package driver_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orizon-lang/numc/internal/driver"
)

func TestRunReturnsZeroAndPrintsDumpsOnSuccess(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run("fn main() -> f64 { return 1 + 2 }", &stdout, &stderr, driver.Options{NoColor: true})

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "Program (0 globals, 1 functions)")
	assert.Contains(t, stdout.String(), "=== MIR Program (1 functions) ===")
}

func TestRunAbortsAfterLexErrorAndWritesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run("fn main() -> f64 { return 1 $ 2 }", &stdout, &stderr, driver.Options{NoColor: true})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")
	assert.Empty(t, stdout.String())
}

func TestRunAbortsAfterParseErrorBeforeAnyDump(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run("fn main( -> f64 { return 1 }", &stdout, &stderr, driver.Options{NoColor: true})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")
	assert.Empty(t, stdout.String())
}

func TestRunAbortsAfterTypecheckErrorWithoutRunningLowering(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run("fn main() -> f64 { return true }", &stdout, &stderr, driver.Options{NoColor: true})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error:")
	assert.NotContains(t, stdout.String(), "MIR Program")
}

func TestRunEmitsWarningsToStderrButStillSucceeds(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run("fn main() -> f64 { return 1 / 0 }", &stdout, &stderr, driver.Options{NoColor: true})

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "Warning:")
}

func TestRunNoColorDisablesAnsiEscapesInErrorOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := driver.Run("fn main() -> f64 { return true }", &stdout, &stderr, driver.Options{NoColor: true})

	assert.Equal(t, 1, code)
	assert.NotContains(t, stderr.String(), "\x1b[")
}

func TestRunStopAfterHaltsBeforeLaterStages(t *testing.T) {
	src := "fn main() -> f64 { return 1 + 2 }"

	var stdout, stderr bytes.Buffer
	code := driver.Run(src, &stdout, &stderr, driver.Options{NoColor: true, StopAfter: driver.StageTypecheck})

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunStopAfterLowerSkipsMIRDump(t *testing.T) {
	src := "fn main() -> f64 { return 1 + 2 }"

	var stdout, stderr bytes.Buffer
	code := driver.Run(src, &stdout, &stderr, driver.Options{NoColor: true, StopAfter: driver.StageLower})

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Program (0 globals, 1 functions)")
	assert.NotContains(t, stdout.String(), "MIR Program")
}
