package dom

// point describes one text piece of the serialized output: its original
// source range (absent for newly constructed elements), the current
// text, and whether the text differs from what the source holds.
type point struct {
	pos, end int // -1 when the piece has no origin
	text     func() string
	modified bool
}

func (e *Element) headPoint() (point, bool) {
	switch e.typ.Variant {
	case HeadVariant, BlockVariant, TextVariant:
		p := point{pos: -1, end: -1, text: e.HeadText, modified: e.modified&headModified != 0}
		if e.headOrigin != nil {
			p.pos, p.end = e.headOrigin.Pos, e.headOrigin.End
		}
		return p, true
	}
	return point{}, false
}

func (e *Element) tailPoint() (point, bool) {
	if e.typ.Variant != BlockVariant {
		return point{}, false
	}
	p := point{pos: -1, end: -1, text: e.TailText, modified: e.modified&tailModified != 0}
	if e.tailOrigin != nil {
		p.pos, p.end = e.tailOrigin.Pos, e.tailOrigin.End
	}
	return p, true
}

// points emits the (before, piece, after) stream for the subtree in
// document order. last is extra whitespace required after the final
// piece by an ancestor; junction resolution happens when the stream is
// consumed, so emission order does not influence the result.
func (e *Element) points(last string, emit func(before string, p point, after string)) {
	head, hasHead := e.headPoint()
	tail, hasTail := e.tailPoint()
	after := CollapseWhitespace(e.SpaceAfter(), last)
	lastSpace := after
	if hasTail {
		lastSpace = e.SpaceBeforeTail()
	}
	if len(e.children) > 0 {
		if hasHead {
			emit(e.SpaceBefore(), head, e.SpaceAfterHead())
		}
		n := e.children[0]
		for _, m := range e.children[1:] {
			n.points(e.SpaceBetween(), emit)
			n = m
		}
		n.points(lastSpace, emit)
	} else if hasHead {
		emit(e.SpaceBefore(), head, lastSpace)
	}
	if hasTail {
		emit(e.SpaceBeforeTail(), tail, after)
	}
}

// Write returns the serialized output of the subtree: head and tail
// texts and children in order, joined per the whitespace policy. The
// output depends on nothing but the tree itself.
func (e *Element) Write() string {
	var frags []fragment
	e.points("", func(before string, p point, after string) {
		frags = append(frags, fragment{before, p.text(), after})
	})
	_, text, _ := combineText(frags)
	return text
}
