// Package dom builds a semantic, mutable tree over structured notation
// source. Elements are created either programmatically or by a
// transform pass over a token tree; mutated trees write themselves back
// as minimal text edits against the original token positions.
package dom

import "errors"

// Structural and contract errors.
var (
	// ErrAlreadyAttached indicates a node was inserted while it still
	// has a parent. Detach it first; ownership is exclusive.
	ErrAlreadyAttached = errors.New("node already attached to a parent")

	// ErrIndexOutOfRange indicates a child mutation with an invalid index.
	ErrIndexOutOfRange = errors.New("child index out of range")

	// ErrTypeMismatch indicates a head value whose type violates the
	// element type's declared head kind.
	ErrTypeMismatch = errors.New("head value type mismatch")

	// ErrStaleOrigin indicates the element tree's recorded origins no
	// longer resolve in the supplied token tree.
	ErrStaleOrigin = errors.New("element origins are stale for this token tree")
)
