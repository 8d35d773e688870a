package dom

import (
	"fmt"
	"strings"
)

// Variant is the closed set of element shapes. The diff generator
// reasons exhaustively over these four.
type Variant uint8

const (
	// ContainerVariant has no text of its own, only children.
	ContainerVariant Variant = iota

	// HeadVariant prints a fixed head text before its children.
	HeadVariant

	// BlockVariant prints a fixed head before and a fixed tail after
	// its children.
	BlockVariant

	// TextVariant carries a mutable typed head value that is both the
	// semantic value and the serialization seed.
	TextVariant
)

func (v Variant) String() string {
	switch v {
	case ContainerVariant:
		return "container"
	case HeadVariant:
		return "head"
	case BlockVariant:
		return "block"
	case TextVariant:
		return "text"
	}
	return "unknown"
}

// Type describes an element type: its variant, fixed head/tail texts,
// head value kind and formatting, and default whitespace policy.
// Types are declared once per grammar and shared by all instances;
// comparing types is pointer comparison.
type Type struct {
	Name    string
	Variant Variant

	// Head is the fixed head text (HeadVariant, BlockVariant).
	Head string
	// Tail is the fixed tail text (BlockVariant).
	Tail string

	// HeadKind declares the value type for TextVariant heads.
	HeadKind HeadKind
	// Toggle maps a ToggleHead's true/false to its two spellings.
	Toggle [2]string

	// Format overrides the default head value formatting.
	Format func(v any) string
	// Parse converts origin token text into a head value. Defaults to
	// the identity for StringHead.
	Parse func(text string) (any, error)

	// Spacing is the type-default whitespace policy.
	Spacing Spacing
}

// Origin is a byte range in the source an element's head or tail text
// was built from. Ranges are copied out of the token tree by value, so
// an element never retains token references across transform passes.
type Origin struct {
	Pos int
	End int
}

const (
	headModified uint8 = 1 << iota
	tailModified
)

// Element is a node of the semantic tree. Construct elements with New
// or NewText, or let a transform pass build them from a token tree.
type Element struct {
	typ      *Type
	parent   *Element
	children []*Element

	head     any // typed head value, TextVariant only
	modified uint8

	spacing map[spaceAttr]string // nil until an override is set

	headOrigin *Origin
	tailOrigin *Origin
}

// New creates an element of the given type with the given children.
// Panics when t is a TextVariant (use NewText) or when a child is
// already attached; programmatic construction with attached children is
// a programming error, mirroring the mutation API's ErrAlreadyAttached.
func New(t *Type, children ...*Element) *Element {
	if t.Variant == TextVariant {
		panic(fmt.Sprintf("dom.New: %s is a text type, use NewText", t.Name))
	}
	e := &Element{typ: t}
	for _, c := range children {
		if err := e.Append(c); err != nil {
			panic(err)
		}
	}
	return e
}

// NewText creates a text element with the given head value. The value's
// dynamic type must match the type's declared head kind.
func NewText(t *Type, head any, children ...*Element) (*Element, error) {
	if t.Variant != TextVariant {
		return nil, fmt.Errorf("%w: %s has no writable head", ErrTypeMismatch, t.Name)
	}
	if !t.HeadKind.check(head) {
		return nil, fmt.Errorf("%w: %s head wants %s, got %T", ErrTypeMismatch, t.Name, t.HeadKind, head)
	}
	e := &Element{typ: t, head: head}
	for _, c := range children {
		if err := e.Append(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// MustText is NewText panicking on error, for static tree literals.
func MustText(t *Type, head any, children ...*Element) *Element {
	e, err := NewText(t, head, children...)
	if err != nil {
		panic(err)
	}
	return e
}

// Type returns the element's type descriptor.
func (e *Element) Type() *Type { return e.typ }

// Is reports whether the element has the given type.
func (e *Element) Is(t *Type) bool { return e.typ == t }

// Head returns the typed head value, or nil for non-text variants.
func (e *Element) Head() any { return e.head }

// SetHead writes a new head value. Only TextVariant elements accept
// it; a value of the wrong dynamic type fails with ErrTypeMismatch.
// Setting a value equal to the current one does not mark the element
// modified.
func (e *Element) SetHead(v any) error {
	if e.typ.Variant != TextVariant {
		return fmt.Errorf("%w: %s head is read-only", ErrTypeMismatch, e.typ.Name)
	}
	if !e.typ.HeadKind.check(v) {
		return fmt.Errorf("%w: %s head wants %s, got %T", ErrTypeMismatch, e.typ.Name, e.typ.HeadKind, v)
	}
	if v != e.head {
		e.head = v
		e.modified |= headModified
	}
	return nil
}

// Modified reports whether this element's own head or tail text was
// changed since the last transform pass.
func (e *Element) Modified() bool { return e.modified != 0 }

// HeadText returns the text the element prints before its children.
func (e *Element) HeadText() string {
	switch e.typ.Variant {
	case HeadVariant, BlockVariant:
		return e.typ.Head
	case TextVariant:
		if e.typ.Format != nil {
			return e.typ.Format(e.head)
		}
		if e.typ.HeadKind == ToggleHead {
			if e.head.(bool) {
				return e.typ.Toggle[0]
			}
			return e.typ.Toggle[1]
		}
		return formatHead(e.typ.HeadKind, e.head)
	}
	return ""
}

// TailText returns the text the element prints after its children.
func (e *Element) TailText() string {
	if e.typ.Variant == BlockVariant {
		return e.typ.Tail
	}
	return ""
}

// SetOrigin records the source ranges the element's head and tail were
// built from. Called by the transform pass; user mutations never touch
// origin, it stays stable until the next pass replaces the tree.
func (e *Element) SetOrigin(head, tail *Origin) {
	e.headOrigin = head
	e.tailOrigin = tail
}

// HeadOrigin returns the head's source range, or nil.
func (e *Element) HeadOrigin() *Origin { return e.headOrigin }

// TailOrigin returns the tail's source range, or nil.
func (e *Element) TailOrigin() *Origin { return e.tailOrigin }

// transplantOrigin copies the origin from old and marks the element
// modified, so its text is written over old's source range.
func (e *Element) transplantOrigin(old *Element) {
	e.headOrigin = old.headOrigin
	e.tailOrigin = old.tailOrigin
	e.modified = 0
	if e.headOrigin != nil {
		e.modified |= headModified
	}
	if e.tailOrigin != nil && e.typ.Variant == BlockVariant {
		e.modified |= tailModified
	}
}

// Pos returns the start offset of the element in the original source,
// or -1 when neither it nor any descendant has an origin.
func (e *Element) Pos() int {
	if e.headOrigin != nil {
		return e.headOrigin.Pos
	}
	for _, c := range e.children {
		if p := c.Pos(); p >= 0 {
			return p
		}
	}
	return -1
}

// End returns the end offset of the element in the original source, or
// -1 when neither it nor any descendant has an origin.
func (e *Element) End() int {
	if e.tailOrigin != nil {
		return e.tailOrigin.End
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		if q := e.children[i].End(); q >= 0 {
			return q
		}
	}
	if e.headOrigin != nil {
		return e.headOrigin.End
	}
	return -1
}

// OriginRange returns the source byte range the element and its
// subtree originally occupied. ok is false for purely constructed
// subtrees.
func (e *Element) OriginRange() (pos, end int, ok bool) {
	pos = e.Pos()
	if pos < 0 {
		return 0, 0, false
	}
	return pos, e.End(), true
}

// Contains reports whether the element's origin range contains the
// given source offset.
func (e *Element) Contains(offset int) bool {
	pos, end, ok := e.OriginRange()
	return ok && pos <= offset && offset < end
}

// ShiftOrigin moves all origins in the subtree at or after the given
// offset by delta. Used by the incremental transform to keep reused
// subtrees addressed against the new source.
func (e *Element) ShiftOrigin(at, delta int) {
	e.Walk(func(n *Element) bool {
		if n.headOrigin != nil && n.headOrigin.Pos >= at {
			n.headOrigin = &Origin{Pos: n.headOrigin.Pos + delta, End: n.headOrigin.End + delta}
		}
		if n.tailOrigin != nil && n.tailOrigin.Pos >= at {
			n.tailOrigin = &Origin{Pos: n.tailOrigin.Pos + delta, End: n.tailOrigin.End + delta}
		}
		return true
	})
}

// Whitespace policy accessors. The getters resolve type defaults; the
// setters store sparse per-element overrides.

func (e *Element) space(a spaceAttr) string {
	if v, ok := e.spacing[a]; ok {
		return v
	}
	return e.typ.Spacing.get(a)
}

func (e *Element) setSpace(a spaceAttr, v string) {
	if v == e.typ.Spacing.get(a) {
		delete(e.spacing, a)
		return
	}
	if e.spacing == nil {
		e.spacing = make(map[spaceAttr]string, 1)
	}
	e.spacing[a] = v
}

// SpaceBefore returns the effective whitespace before the element.
func (e *Element) SpaceBefore() string { return e.space(spaceBefore) }

// SpaceAfterHead returns the effective whitespace after the head.
func (e *Element) SpaceAfterHead() string { return e.space(spaceAfterHead) }

// SpaceBetween returns the effective whitespace between children.
func (e *Element) SpaceBetween() string { return e.space(spaceBetween) }

// SpaceBeforeTail returns the effective whitespace before the tail.
func (e *Element) SpaceBeforeTail() string { return e.space(spaceBeforeTail) }

// SpaceAfter returns the effective whitespace after the element.
func (e *Element) SpaceAfter() string { return e.space(spaceAfter) }

// SetSpaceBefore overrides the whitespace before the element.
func (e *Element) SetSpaceBefore(v string) { e.setSpace(spaceBefore, v) }

// SetSpaceAfterHead overrides the whitespace after the head.
func (e *Element) SetSpaceAfterHead(v string) { e.setSpace(spaceAfterHead, v) }

// SetSpaceBetween overrides the whitespace between children.
func (e *Element) SetSpaceBetween(v string) { e.setSpace(spaceBetween, v) }

// SetSpaceBeforeTail overrides the whitespace before the tail.
func (e *Element) SetSpaceBeforeTail(v string) { e.setSpace(spaceBeforeTail, v) }

// SetSpaceAfter overrides the whitespace after the element.
func (e *Element) SetSpaceAfter(v string) { e.setSpace(spaceAfter, v) }

// Copy returns a deep copy of the subtree without origins.
func (e *Element) Copy() *Element {
	c := &Element{typ: e.typ, head: e.head}
	if e.spacing != nil {
		c.spacing = make(map[spaceAttr]string, len(e.spacing))
		for k, v := range e.spacing {
			c.spacing[k] = v
		}
	}
	for _, child := range e.children {
		cc := child.Copy()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// CopyWithOrigin returns a deep copy of the subtree including origins
// and modified flags.
func (e *Element) CopyWithOrigin() *Element {
	c := e.Copy()
	var walk func(dst, src *Element)
	walk = func(dst, src *Element) {
		dst.headOrigin = src.headOrigin
		dst.tailOrigin = src.tailOrigin
		dst.modified = src.modified
		for i := range src.children {
			walk(dst.children[i], src.children[i])
		}
	}
	walk(c, e)
	return c
}

func (e *Element) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s", e.typ.Name)
	if e.typ.Variant == TextVariant {
		fmt.Fprintf(&b, " %v", e.head)
	}
	if n := len(e.children); n == 1 {
		b.WriteString(" (1 child)")
	} else if n > 1 {
		fmt.Fprintf(&b, " (%d children)", n)
	}
	if pos, end, ok := e.OriginRange(); ok {
		fmt.Fprintf(&b, " [%d:%d]", pos, end)
	}
	b.WriteString(">")
	return b.String()
}

// Dump writes an indented tree representation, for debugging.
func (e *Element) Dump() string {
	var b strings.Builder
	var walk func(n *Element, depth int)
	walk = func(n *Element, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.String())
		b.WriteByte('\n')
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(e, 0)
	return b.String()
}
