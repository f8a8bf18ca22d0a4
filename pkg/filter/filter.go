// Package filter implements the input filter stack described in spec §4.1:
// pluggable line sources that normalise whitespace, strip comments, join
// backslash-continued lines, and expose a column-translation table so any
// byte of a delivered ("cooked") line maps back to the original column it
// came from.
package filter

import "github.com/gcnasm/gcnasm/pkg/source"

// ColumnMap translates a byte offset in a cooked line back to the column it
// occupied in the original, uncooked source. Entry i gives the original
// column of cooked byte i; it is built incrementally as a filter emits
// characters, exactly mirroring what it dropped (whitespace collapse,
// comment removal, backslash-continuation joins, macro-parameter
// substitution).
type ColumnMap []int

// OriginalColumn returns the original column for a cooked-line byte offset,
// clamping to the closest known entry for offsets past the mapped range
// (e.g. a synthetic trailing space).
func (m ColumnMap) OriginalColumn(offset int) int {
	if len(m) == 0 {
		return 1
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(m) {
		offset = len(m) - 1
	}
	return m[offset]
}

// Line is one logical, cooked line delivered by a Filter.
type Line struct {
	Text    string
	Columns ColumnMap
	Pos     source.Position // position of Text[0]
}

// Filter is a pluggable line source. Next returns io.EOF (via ok=false, and
// no error) when exhausted; a non-nil error indicates a fatal I/O failure
// per §7 ("Fatal I/O errors on input streams abort the run").
type Filter interface {
	// Next returns the next cooked logical line, or ok=false when the
	// filter is exhausted.
	Next() (line Line, ok bool, err error)

	// Name identifies the filter for diagnostics (file name, macro name,
	// or the literal ".rept" for a repeat block).
	Name() string
}

// Stack is a LIFO of filters: including a file, applying a macro, or
// entering a repeat block pushes a new Filter; exhausting one pops it. Only
// the top filter is ever read from, matching §4.1's "top file"/"top macro"
// diagnostics rule (the deepest open filter).
type Stack struct {
	filters []Filter
}

// Push installs f as the new top of the stack.
func (s *Stack) Push(f Filter) { s.filters = append(s.filters, f) }

// Empty reports whether the stack has no filters left.
func (s *Stack) Empty() bool { return len(s.filters) == 0 }

// Depth reports how many filters are currently pushed (inclusion depth plus
// macro-substitution depth plus repeat-block depth, since all three share
// one stack).
func (s *Stack) Depth() int { return len(s.filters) }

// Top returns the deepest open filter, or nil if the stack is empty.
func (s *Stack) Top() Filter {
	if len(s.filters) == 0 {
		return nil
	}
	return s.filters[len(s.filters)-1]
}

// Next pulls the next cooked line from the top filter, popping exhausted
// filters and retrying until a line is produced or the whole stack drains.
func (s *Stack) Next() (Line, bool, error) {
	for len(s.filters) > 0 {
		top := s.filters[len(s.filters)-1]
		line, ok, err := top.Next()
		if err != nil {
			return Line{}, false, err
		}
		if ok {
			return line, true, nil
		}
		s.filters = s.filters[:len(s.filters)-1]
	}
	return Line{}, false, nil
}
