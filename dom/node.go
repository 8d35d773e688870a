package dom

import "fmt"

// Structural tree layer. Every element owns its children exclusively:
// a child has exactly one parent, and attaching a node that still has a
// parent is an error. The mutation methods keep parent pointers exact.

// Parent returns the owning parent, or nil for a root.
func (e *Element) Parent() *Element { return e.parent }

// Root returns the topmost ancestor (possibly e itself).
func (e *Element) Root() *Element {
	n := e
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Len returns the number of children.
func (e *Element) Len() int { return len(e.children) }

// Child returns the child at index i, or nil when out of range.
func (e *Element) Child(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// Children returns the children in order. The returned slice is a copy;
// mutating it does not affect the tree.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Index returns the position of e in its parent, or -1 for a root.
// Comparison is by identity.
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	for i, c := range e.parent.children {
		if c == e {
			return i
		}
	}
	return -1
}

// Append attaches node as the last child. Fails with
// ErrAlreadyAttached when node still has a parent.
func (e *Element) Append(node *Element) error {
	return e.Insert(len(e.children), node)
}

// Insert attaches node at index i, shifting later children right.
func (e *Element) Insert(i int, node *Element) error {
	if node.parent != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, node.typ.Name)
	}
	if i < 0 || i > len(e.children) {
		return fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfRange, i, len(e.children))
	}
	node.parent = e
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = node
	return nil
}

// RemoveAt detaches and returns the child at index i. The removed
// node's parent link is cleared; its origin is kept.
func (e *Element) RemoveAt(i int) (*Element, error) {
	if i < 0 || i >= len(e.children) {
		return nil, fmt.Errorf("%w: remove at %d of %d", ErrIndexOutOfRange, i, len(e.children))
	}
	node := e.children[i]
	copy(e.children[i:], e.children[i+1:])
	e.children = e.children[:len(e.children)-1]
	node.parent = nil
	return node, nil
}

// Detach removes e from its parent, if any.
func (e *Element) Detach() {
	if e.parent != nil {
		if i := e.Index(); i >= 0 {
			e.parent.RemoveAt(i)
		}
	}
}

// ReplaceAt swaps the child at index i for node. The origin of the old
// child is transplanted onto the new node and the new node is marked
// modified, so that writing the tree back replaces exactly the old
// node's source range. The old child is returned detached.
func (e *Element) ReplaceAt(i int, node *Element) (*Element, error) {
	if i < 0 || i >= len(e.children) {
		return nil, fmt.Errorf("%w: replace at %d of %d", ErrIndexOutOfRange, i, len(e.children))
	}
	if node.parent != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAttached, node.typ.Name)
	}
	old := e.children[i]
	node.transplantOrigin(old)
	node.parent = e
	e.children[i] = node
	old.parent = nil
	return old, nil
}

// Replace swaps e for node inside e's parent. See ReplaceAt.
func (e *Element) Replace(node *Element) error {
	if e.parent == nil {
		return fmt.Errorf("%w: cannot replace a root", ErrIndexOutOfRange)
	}
	_, err := e.parent.ReplaceAt(e.Index(), node)
	return err
}

// Walk visits e and its descendants in pre-order. Returning false from
// visit prunes the children of the visited element.
func (e *Element) Walk(visit func(*Element) bool) {
	if visit(e) {
		for _, c := range e.children {
			c.Walk(visit)
		}
	}
}

// FindAncestor walks strictly upward and returns the first ancestor
// matching pred, or nil.
func (e *Element) FindAncestor(pred func(*Element) bool) *Element {
	for n := e.parent; n != nil; n = n.parent {
		if pred(n) {
			return n
		}
	}
	return nil
}

// FindDescendants returns the descendants matching pred in pre-order
// (parent before children, children in order). e itself is excluded.
func (e *Element) FindDescendants(pred func(*Element) bool) []*Element {
	var out []*Element
	for _, c := range e.children {
		c.Walk(func(n *Element) bool {
			if pred(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// FindDescendantsIn returns the descendants matching pred whose origin
// range intersects [start, end), in pre-order. Subtrees entirely
// outside the bound are not descended into.
func (e *Element) FindDescendantsIn(pred func(*Element) bool, start, end int) []*Element {
	var out []*Element
	for _, c := range e.children {
		c.Walk(func(n *Element) bool {
			p, q, ok := n.OriginRange()
			if ok && (q <= start || p >= end) {
				return false
			}
			if pred(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// FindChildAt returns the child node touching the given source
// position. When two children touch the position, the right one wins.
// Only children with a resolvable position are considered.
func (e *Element) FindChildAt(position int) *Element {
	var prev *Element
	for _, n := range e.children {
		pos := n.Pos()
		if pos < 0 {
			continue
		}
		if pos == position {
			return n
		}
		if pos > position {
			return prev
		}
		end := n.End()
		if end > position {
			return n
		}
		if end == position {
			prev = n
		} else {
			prev = nil
		}
	}
	return prev
}

// FindDescendantAt returns the deepest descendant containing the
// position, or nil.
func (e *Element) FindDescendantAt(position int) *Element {
	var found *Element
	n := e.FindChildAt(position)
	for n != nil {
		pos, end := n.Pos(), n.End()
		if pos < 0 || position < pos || position > end {
			break
		}
		found = n
		n = n.FindChildAt(position)
	}
	return found
}

// Equal reports whether two trees are equivalent: same element type,
// equal head values, and pairwise equal children. Origins, modified
// flags and spacing overrides are not compared.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.typ != other.typ || len(e.children) != len(other.children) {
		return false
	}
	if e.typ.Variant == TextVariant && e.head != other.head {
		return false
	}
	for i, c := range e.children {
		if !c.Equal(other.children[i]) {
			return false
		}
	}
	return true
}
