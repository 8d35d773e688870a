// Package edit defines text edits (byte-range replacements) and applies
// them to source buffers. Edits are produced by the dom package from a
// mutated element tree; Apply performs them in a single pass without
// position renumbering.
package edit

import (
	"errors"
	"fmt"
	"sort"
)

// Errors reported by edit application.
var (
	// ErrOverlap indicates two edits cover overlapping byte ranges.
	ErrOverlap = errors.New("edits overlap")

	// ErrOutOfBounds indicates an edit range lies outside the buffer.
	ErrOutOfBounds = errors.New("edit out of bounds")
)

// Edit replaces the bytes in [Pos, End) with Text. A zero-width range
// (Pos == End) is an insertion; empty Text is a deletion.
type Edit struct {
	Pos  int
	End  int
	Text string
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d:%d]->%q", e.Pos, e.End, e.Text)
}

// Validate checks that the edits are position-ordered, non-overlapping
// and within a buffer of the given length.
func Validate(edits []Edit, length int) error {
	prev := 0
	for i, e := range edits {
		if e.Pos < 0 || e.End < e.Pos || e.End > length {
			return fmt.Errorf("%w: edit %d %s (buffer length %d)", ErrOutOfBounds, i, e, length)
		}
		if e.Pos < prev {
			return fmt.Errorf("%w: edit %d %s starts before offset %d", ErrOverlap, i, e, prev)
		}
		// Two zero-width inserts at the same offset would be ambiguous.
		if e.Pos == prev && i > 0 && edits[i-1].End == e.Pos && edits[i-1].Pos == e.Pos && e.Pos == e.End {
			return fmt.Errorf("%w: edit %d %s duplicates insertion point", ErrOverlap, i, e)
		}
		prev = e.End
	}
	return nil
}

// Apply performs the edits on the source buffer and returns the new
// buffer and the number of edits applied. The edits must be ordered and
// non-overlapping; the buffer is rebuilt in one left-to-right pass.
func Apply(source []byte, edits []Edit) ([]byte, int, error) {
	if err := Validate(edits, len(source)); err != nil {
		return nil, 0, err
	}
	size := len(source)
	for _, e := range edits {
		size += len(e.Text) - (e.End - e.Pos)
	}
	out := make([]byte, 0, size)
	pos := 0
	for _, e := range edits {
		out = append(out, source[pos:e.Pos]...)
		out = append(out, e.Text...)
		pos = e.End
	}
	out = append(out, source[pos:]...)
	return out, len(edits), nil
}

// Sort orders edits by ascending start offset, keeping the relative
// order of equal offsets stable.
func Sort(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Pos != edits[j].Pos {
			return edits[i].Pos < edits[j].Pos
		}
		return edits[i].End < edits[j].End
	})
}
