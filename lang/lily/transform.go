package lily

import (
	"fmt"

	"lydom/dom"
	"lydom/tokens"
	"lydom/transform"
)

// Rules is the dispatch table mapping this grammar's context kinds to
// element constructors.
var Rules = transform.Dispatch{
	KindRoot:   rootRule,
	KindList:   blockRule(MusicList),
	KindSim:    blockRule(Sim),
	KindScheme: blockRule(Scheme),
	KindPitch:  pitchRule,
}

// NewBuilder returns a builder for this grammar.
func NewBuilder(opts ...transform.Option) *transform.Builder {
	return transform.NewBuilder(Rules, opts...)
}

func rootRule(b *transform.Builder, ctx *tokens.Context, items []transform.Item) (*dom.Element, error) {
	children, err := elements(b, items)
	if err != nil {
		return nil, err
	}
	return b.Node(Document, nil, nil, children...)
}

// blockRule builds a delimited block: the first and last tokens are
// the open and close delimiters, everything between is content.
func blockRule(t *dom.Type) transform.Rule {
	return func(b *transform.Builder, ctx *tokens.Context, items []transform.Item) (*dom.Element, error) {
		var head, tail []*tokens.Token
		body := items
		if len(body) > 0 && body[0].Token != nil && body[0].Token.Kind == KindOpen {
			head = []*tokens.Token{body[0].Token}
			body = body[1:]
		}
		if n := len(body); n > 0 && body[n-1].Token != nil && body[n-1].Token.Kind == KindClose {
			tail = []*tokens.Token{body[n-1].Token}
			body = body[:n-1]
		}
		children, err := elements(b, body)
		if err != nil {
			return nil, err
		}
		return b.Node(t, head, tail, children...)
	}
}

// pitchRule turns a note token with optional octave and duration marks
// into a Note element carrying Octave and Duration children.
func pitchRule(b *transform.Builder, ctx *tokens.Context, items []transform.Item) (*dom.Element, error) {
	var note *tokens.Token
	var children []*dom.Element
	for _, it := range items {
		tok := it.Token
		if tok == nil {
			return nil, fmt.Errorf("pitch context %s holds a nested element", ctx.Kind)
		}
		switch tok.Kind {
		case KindNote:
			note = tok
		case KindOctave:
			el, err := b.Node(Octave, []*tokens.Token{tok}, nil)
			if err != nil {
				return nil, err
			}
			children = append(children, el)
		case KindDuration:
			el, err := b.Node(Duration, []*tokens.Token{tok}, nil)
			if err != nil {
				return nil, err
			}
			children = append(children, el)
		default:
			return nil, fmt.Errorf("unexpected %s token in pitch context", tok.Kind)
		}
	}
	if note == nil {
		return nil, fmt.Errorf("pitch context without a note token")
	}
	return b.Node(Note, []*tokens.Token{note}, nil, children...)
}

// elements converts rule items to child elements. Built elements pass
// through; loose tokens become the leaf element for their kind.
func elements(b *transform.Builder, items []transform.Item) ([]*dom.Element, error) {
	var out []*dom.Element
	for _, it := range items {
		if it.Elem != nil {
			out = append(out, it.Elem)
			continue
		}
		t := leafType(it.Token.Kind)
		if t == nil {
			// Stray delimiter from unbalanced input; keep the text.
			t = Symbol
		}
		el, err := b.Node(t, []*tokens.Token{it.Token}, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func leafType(kind tokens.Kind) *dom.Type {
	switch kind {
	case KindCommand:
		return Command
	case KindString:
		return String
	case KindComment:
		return Comment
	case KindWord:
		return Symbol
	case KindNote:
		return Note
	case KindDuration:
		return Duration
	case KindOctave:
		return Octave
	}
	return nil
}
