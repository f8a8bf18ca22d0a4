package filter

import (
	"strconv"

	"github.com/gcnasm/gcnasm/pkg/source"
)

// RepeatFilter yields the same block of cooked lines N times (`.rept N` /
// `.endr`, §4.1). The 0-based repetition index is exposed through Counter()
// and CounterLiteral(); the driver substitutes CounterLiteral() for `\@`
// in each delivered line. The index advances inside Next() once a pass is
// exhausted, so it reflects the pass of the line Next() returned last.
type RepeatFilter struct {
	name    string
	lines   []string
	cols    []ColumnMap
	declPos source.Position
	count   int
	pass    int
	iter    int
}

// NewRepeatFilter builds a filter that replays lines/cols count times.
func NewRepeatFilter(name string, lines []string, cols []ColumnMap, declPos source.Position, count int) *RepeatFilter {
	return &RepeatFilter{name: name, lines: lines, cols: cols, declPos: declPos, count: count}
}

// Name implements Filter.
func (f *RepeatFilter) Name() string { return f.name }

// Counter returns the 0-based index of the repetition currently being
// delivered.
func (f *RepeatFilter) Counter() int { return f.pass }

// Next implements Filter.
func (f *RepeatFilter) Next() (Line, bool, error) {
	for f.pass < f.count {
		if f.iter >= len(f.lines) {
			f.pass++
			f.iter = 0
			continue
		}
		text := f.lines[f.iter]
		colMap := f.cols[f.iter]
		lineNo := f.iter
		f.iter++
		pos := source.Position{
			File:   f.declPos.File,
			Macro:  f.declPos.Macro,
			Line:   f.declPos.Line + lineNo + 1,
			Column: 1,
		}
		return Line{Text: text, Columns: colMap, Pos: pos}, true, nil
	}
	return Line{}, false, nil
}

// CounterLiteral renders the current pass counter as a decimal string, the
// value substituted for `\@`/counter references inside a repeat body.
func (f *RepeatFilter) CounterLiteral() string {
	return strconv.Itoa(f.pass)
}
