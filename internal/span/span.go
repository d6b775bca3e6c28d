// Package span carries source-location information for HIR nodes, built
// from the lexer's token positions and cited by diagnostics and the HIR
// dump.
package span

import "fmt"

// Span records the 1-based row/column range a piece of source text spans.
type Span struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// New builds a Span from explicit endpoints.
func New(startRow, startCol, endRow, endCol int) Span {
	return Span{StartRow: startRow, StartCol: startCol, EndRow: endRow, EndCol: endCol}
}

// FromPoint builds a zero-width Span at a single row/column.
func FromPoint(row, col int) Span {
	return Span{StartRow: row, StartCol: col, EndRow: row, EndCol: col}
}

// Merge returns the smallest Span covering both a and b, taking the
// earlier start and the later end.
func Merge(a, b Span) Span {
	s := a
	if before(b.StartRow, b.StartCol, a.StartRow, a.StartCol) {
		s.StartRow, s.StartCol = b.StartRow, b.StartCol
	}
	if before(a.EndRow, a.EndCol, b.EndRow, b.EndCol) {
		s.EndRow, s.EndCol = b.EndRow, b.EndCol
	}
	return s
}

func before(row1, col1, row2, col2 int) bool {
	if row1 != row2 {
		return row1 < row2
	}
	return col1 < col2
}

// String renders the span the way the compiler's diagnostics and HIR dump
// do: "row:startCol-endCol" on one line, "row:col-row:col" across lines.
func (s Span) String() string {
	if s.StartRow == s.EndRow {
		return fmt.Sprintf("%d:%d-%d", s.StartRow, s.StartCol, s.EndCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.StartRow, s.StartCol, s.EndRow, s.EndCol)
}
