package dom

import (
	"fmt"

	"lydom/edit"
	"lydom/tokens"
)

// Edits compares the element tree's intended output against the source
// range recorded in its origins and returns the minimal ordered,
// non-overlapping text replacements that turn the original source into
// the serialized form of the current tree. Unmodified subtrees produce
// no edits, so formatting and comments outside the mutation stay
// untouched.
//
// The token tree must be the one the element tree was built from (or a
// version with identical positions); origins that no longer resolve
// fail with ErrStaleOrigin and no partial result is returned.
func (e *Element) Edits(tree *tokens.Tree) ([]edit.Edit, error) {
	return e.EditsRange(tree.Root, -1, -1)
}

// EditsRange is Edits restricted to [start, end) within the given
// context. Added or modified text inside the range is still written,
// but nothing outside it is deleted. Negative bounds default to the
// context's own range.
func (e *Element) EditsRange(ctx *tokens.Context, start, end int) ([]edit.Edit, error) {
	ctxPos, ctxEnd := ctx.Span()
	if start < 0 {
		start = max(ctxPos, 0)
	}
	if end < 0 {
		end = max(ctxEnd, 0)
	}

	toks := ctx.Tokens()
	ti := 0

	var out []edit.Edit
	pos := start
	insertAfter := ""
	seenPoint := false

	var fail error
	e.points("", func(before string, p point, after string) {
		if fail != nil {
			return
		}
		b := ""
		if seenPoint {
			b = CollapseWhitespace(insertAfter, before)
		}
		if p.pos < 0 || p.pos < pos {
			// Newly constructed piece, or one whose origin now lies
			// behind the cursor because it was moved; either way its
			// text is written fresh at the cursor. A moved piece's old
			// tokens are swept up by the surrounding deletion scans.
			text := p.text()
			if text != "" {
				out = append(out, edit.Edit{Pos: pos, End: pos, Text: b + text})
				insertAfter = after
				seenPoint = true
			}
			return
		}
		if p.end > ctxEnd && ctxEnd >= 0 {
			fail = fmt.Errorf("%w: origin %d:%d beyond token tree end %d", ErrStaleOrigin, p.pos, p.end, ctxEnd)
			return
		}
		if p.pos > pos {
			// Delete tokens the output no longer accounts for between
			// the cursor and this piece. The deletion runs up to the
			// next surviving piece, so the whitespace the removed text
			// owned goes with it and only the resolved separator b
			// remains.
			delPos, delEnd := pos, pos
			for ti < len(toks) {
				t := toks[ti]
				ti++
				if t.Pos >= p.pos {
					break
				}
				if t.Pos >= pos {
					delEnd = t.End
				}
			}
			if delEnd > delPos {
				out = append(out, edit.Edit{Pos: delPos, End: p.pos, Text: b})
			}
		} else if b != "" {
			out = append(out, edit.Edit{Pos: p.pos, End: p.pos, Text: b})
		}
		if p.modified {
			out = append(out, edit.Edit{Pos: p.pos, End: p.end, Text: p.text()})
		}
		pos = p.end
		insertAfter = after
		seenPoint = true
	})
	if fail != nil {
		return nil, fail
	}
	if pos < end {
		out = append(out, edit.Edit{Pos: pos, End: end, Text: ""})
	}
	if err := edit.Validate(out, maxEnd(out, end)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStaleOrigin, err)
	}
	return out, nil
}

func maxEnd(edits []edit.Edit, end int) int {
	for _, e := range edits {
		if e.End > end {
			end = e.End
		}
	}
	return end
}
