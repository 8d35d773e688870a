package dom

import "strings"

// Whitespace strings form a strength lattice ordered by newline count
// first, then space count: "" < " " < "\n" < "\n\n". When adjacent
// elements disagree about the whitespace at a junction, the strongest
// requirement wins. Ties between equal-strength but different strings
// keep the first one seen, so resolution is deterministic regardless of
// which neighbor is inspected first.

// CollapseWhitespace returns the strongest of the given whitespace
// strings. The empty string is the weakest possible value.
func CollapseWhitespace(ws ...string) string {
	best := ""
	bestNL, bestSP := -1, -1
	for _, s := range ws {
		nl := strings.Count(s, "\n")
		sp := strings.Count(s, " ")
		if nl > bestNL || (nl == bestNL && sp > bestSP) {
			best, bestNL, bestSP = s, nl, sp
		}
	}
	return best
}

// fragment is one text piece with its whitespace opinions.
type fragment struct {
	before, text, after string
}

// combineText concatenates text fragments, collapsing the whitespace
// opinions around empty fragments into the surrounding junctions.
// fragments supplies (before, text, after) triples in document order.
// Returns the leading whitespace, the combined text, and the trailing
// whitespace.
func combineText(fragments []fragment) (lead, text, trail string) {
	var result []string
	var pending []string
	for _, f := range fragments {
		pending = append(pending, f.before)
		if f.text != "" {
			result = append(result, CollapseWhitespace(pending...), f.text)
			pending = pending[:0]
		}
		pending = append(pending, f.after)
	}
	if len(result) > 0 {
		lead = result[0]
		text = strings.Join(result[1:], "")
	}
	trail = CollapseWhitespace(pending...)
	return lead, text, trail
}

// spaceAttr selects one of the five per-element whitespace attributes.
type spaceAttr uint8

const (
	spaceBefore spaceAttr = iota
	spaceAfterHead
	spaceBetween
	spaceBeforeTail
	spaceAfter
)

// Spacing holds the five whitespace policy attributes of an element
// type. Each value is the type's default; per-element overrides are
// stored sparsely on the element itself.
type Spacing struct {
	Before     string // before the element
	AfterHead  string // between head and first child
	Between    string // between consecutive children
	BeforeTail string // between last child and tail
	After      string // after the element
}

func (s Spacing) get(a spaceAttr) string {
	switch a {
	case spaceBefore:
		return s.Before
	case spaceAfterHead:
		return s.AfterHead
	case spaceBetween:
		return s.Between
	case spaceBeforeTail:
		return s.BeforeTail
	default:
		return s.After
	}
}
