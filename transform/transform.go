// Package transform maps token trees to element trees. A per-grammar
// dispatch table tells the builder how to turn each context kind into
// an element; the builder walks the token tree bottom-up, sets origins
// on everything it creates, caches results per source version, and can
// update a previous tree incrementally after a change notification.
package transform

import (
	"errors"

	"lydom/dom"
	"lydom/tokens"
)

// Recoverable build errors.
var (
	// ErrIncrementalRebuild indicates a change region could not be
	// localized to a stable subtree; callers recover with a full build.
	ErrIncrementalRebuild = errors.New("change region could not be localized")

	// ErrNoRule indicates the dispatch table has no rule for the root
	// context kind.
	ErrNoRule = errors.New("no transform rule for context kind")
)

// Item is one input to a transform rule: either a raw token of the
// context or an element built from a child context.
type Item struct {
	Token *tokens.Token
	Elem  *dom.Element
}

// Rule builds the element for one context from its items. Child
// contexts have already been transformed; their elements appear in the
// items in document order. Returning a nil element drops the context's
// output (its tokens become invisible to the parent).
type Rule func(b *Builder, ctx *tokens.Context, items []Item) (*dom.Element, error)

// Transform is a per-grammar dispatch table. Rule returns nil for
// unknown context kinds; the builder then passes the context's tokens
// through to the parent rule unchanged.
type Transform interface {
	Rule(kind tokens.Kind) Rule
}

// Dispatch is a map-backed Transform.
type Dispatch map[tokens.Kind]Rule

// Rule returns the rule for the kind, or nil.
func (d Dispatch) Rule(kind tokens.Kind) Rule { return d[kind] }
