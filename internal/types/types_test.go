package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orizon-lang/numc/internal/types"
)

func TestEqualBase(t *testing.T) {
	assert.True(t, types.Equal(types.Base(types.F64), types.Base(types.F64)))
	assert.False(t, types.Equal(types.Base(types.F64), types.Base(types.Bool)))
}

func TestEqualPointer(t *testing.T) {
	a := types.Pointer(types.Base(types.F64))
	b := types.Pointer(types.Base(types.F64))
	c := types.Pointer(types.Base(types.Bool))
	assert.True(t, types.Equal(a, b))
	assert.False(t, types.Equal(a, c))
	assert.False(t, types.Equal(a, types.Base(types.F64)))
}

func TestAutoCompatibleWithAnything(t *testing.T) {
	auto := types.Base(types.Auto)
	assert.True(t, types.Compatible(auto, types.Base(types.F64)))
	assert.True(t, types.Compatible(types.Base(types.Bool), auto))
	assert.False(t, types.Equal(auto, types.Base(types.F64)))
}

func TestCompatibleRequiresEqualityWithoutAuto(t *testing.T) {
	assert.True(t, types.Compatible(types.Base(types.F64), types.Base(types.F64)))
	assert.False(t, types.Compatible(types.Base(types.F64), types.Base(types.Bool)))
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "F64", types.Base(types.F64).String())
	assert.Equal(t, "*F64", types.Pointer(types.Base(types.F64)).String())
	assert.Equal(t, "**Bool", types.Pointer(types.Pointer(types.Base(types.Bool))).String())
}
