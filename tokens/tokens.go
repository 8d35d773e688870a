// Package tokens models the token tree handed to us by a tokenizer.
// A token tree is an ordered, range-addressed tree of typed tokens and
// nested contexts over a source text. The DOM core only reads it: it is
// produced externally (by a lexer, or adapted from a tree-sitter parse)
// and replaced wholesale after every edit pass.
package tokens

import (
	"fmt"
	"strings"
)

// Kind identifies the lexical type of a token or context.
type Kind string

// Item is a member of a Context: either a *Token or a nested *Context.
type Item interface {
	// Span returns the byte range [pos, end) the item covers.
	// A context without any tokens returns (-1, -1).
	Span() (pos, end int)
}

// Token is a single lexed token. The byte range is half-open.
type Token struct {
	Kind Kind
	Pos  int
	End  int
	Text string
}

// Span returns the token's byte range.
func (t *Token) Span() (int, int) { return t.Pos, t.End }

func (t *Token) String() string {
	return fmt.Sprintf("%s(%d:%d %q)", t.Kind, t.Pos, t.End, t.Text)
}

// Context is a nested group of tokens and sub-contexts, in document
// order. Sibling ranges are contiguous (modulo untokenized whitespace)
// and never overlap.
type Context struct {
	Kind     Kind
	Children []Item
}

// Add appends items to the context.
func (c *Context) Add(items ...Item) {
	c.Children = append(c.Children, items...)
}

// Span returns the byte range covered by the context's tokens,
// or (-1, -1) when the context holds no tokens at all.
func (c *Context) Span() (int, int) {
	first := c.FirstToken()
	if first == nil {
		return -1, -1
	}
	last := c.LastToken()
	return first.Pos, last.End
}

// Pos returns the start offset of the first token, or -1.
func (c *Context) Pos() int {
	p, _ := c.Span()
	return p
}

// End returns the end offset of the last token, or -1.
func (c *Context) End() int {
	_, e := c.Span()
	return e
}

// FirstToken returns the first token in the subtree, or nil.
func (c *Context) FirstToken() *Token {
	for _, it := range c.Children {
		switch n := it.(type) {
		case *Token:
			return n
		case *Context:
			if t := n.FirstToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

// LastToken returns the last token in the subtree, or nil.
func (c *Context) LastToken() *Token {
	for i := len(c.Children) - 1; i >= 0; i-- {
		switch n := c.Children[i].(type) {
		case *Token:
			return n
		case *Context:
			if t := n.LastToken(); t != nil {
				return t
			}
		}
	}
	return nil
}

// Tokens returns all tokens of the subtree in document order.
func (c *Context) Tokens() []*Token {
	var out []*Token
	var walk func(*Context)
	walk = func(ctx *Context) {
		for _, it := range ctx.Children {
			switch n := it.(type) {
			case *Token:
				out = append(out, n)
			case *Context:
				walk(n)
			}
		}
	}
	walk(c)
	return out
}

// TokenAt returns the token whose range contains pos, or nil.
func (c *Context) TokenAt(pos int) *Token {
	for _, it := range c.Children {
		p, e := it.Span()
		if p < 0 || pos >= e {
			continue
		}
		if pos < p {
			return nil
		}
		switch n := it.(type) {
		case *Token:
			return n
		case *Context:
			return n.TokenAt(pos)
		}
	}
	return nil
}

// ContextAt returns the deepest context whose range contains the byte
// range [pos, end). It returns c itself when no child context does.
func (c *Context) ContextAt(pos, end int) *Context {
	for _, it := range c.Children {
		sub, ok := it.(*Context)
		if !ok {
			continue
		}
		p, e := sub.Span()
		if p >= 0 && p <= pos && end <= e {
			return sub.ContextAt(pos, end)
		}
	}
	return c
}

func (c *Context) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s", c.Kind)
	if p, e := c.Span(); p >= 0 {
		fmt.Fprintf(&b, " %d:%d", p, e)
	}
	fmt.Fprintf(&b, " (%d items)>", len(c.Children))
	return b.String()
}

// Tree pairs a root context with the source text it was lexed from and
// a content-derived version marker. The version keys transform caches:
// two trees over identical source get the same version.
type Tree struct {
	Root    *Context
	Source  []byte
	Version uint64
}

// NewTree builds a Tree over the given root and source, computing the
// version hash from the source bytes.
func NewTree(root *Context, source []byte) *Tree {
	return &Tree{
		Root:    root,
		Source:  source,
		Version: Hash(source),
	}
}

// Hash computes the FNV-1a hash of the source used as version marker.
func Hash(source []byte) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(source); i++ {
		h ^= uint64(source[i])
		h *= prime64
	}
	return h
}

// Change describes a retokenized region: the text between Start and
// OldEnd in the previous source was replaced by the text between Start
// and NewEnd in the new source.
type Change struct {
	Start  int
	OldEnd int
	NewEnd int
}

// Delta returns the length difference introduced by the change.
func (c Change) Delta() int { return c.NewEnd - c.OldEnd }

// Diff computes the change region between two source versions by
// trimming the common prefix and suffix. Returns ok=false when the
// sources are identical.
func Diff(old, new []byte) (Change, bool) {
	if string(old) == string(new) {
		return Change{}, false
	}
	start := 0
	for start < len(old) && start < len(new) && old[start] == new[start] {
		start++
	}
	oldEnd, newEnd := len(old), len(new)
	for oldEnd > start && newEnd > start && old[oldEnd-1] == new[newEnd-1] {
		oldEnd--
		newEnd--
	}
	return Change{Start: start, OldEnd: oldEnd, NewEnd: newEnd}, true
}
