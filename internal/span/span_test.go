package span_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orizon-lang/numc/internal/span"
)

func TestFromPoint(t *testing.T) {
	s := span.FromPoint(3, 7)
	assert.Equal(t, span.New(3, 7, 3, 7), s)
}

func TestMergeSameLine(t *testing.T) {
	a := span.New(1, 2, 1, 4)
	b := span.New(1, 6, 1, 9)
	assert.Equal(t, span.New(1, 2, 1, 9), span.Merge(a, b))
	// Merge is commutative.
	assert.Equal(t, span.New(1, 2, 1, 9), span.Merge(b, a))
}

func TestMergeMultiLine(t *testing.T) {
	a := span.New(1, 2, 1, 4)
	b := span.New(3, 1, 3, 5)
	assert.Equal(t, span.New(1, 2, 3, 5), span.Merge(a, b))
}

func TestStringSameLine(t *testing.T) {
	assert.Equal(t, "1:2-9", span.New(1, 2, 1, 9).String())
}

func TestStringMultiLine(t *testing.T) {
	assert.Equal(t, "1:2-3:5", span.New(1, 2, 3, 5).String())
}
