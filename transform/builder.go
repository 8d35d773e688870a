package transform

import (
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"lydom/dom"
	"lydom/tokens"
)

// Builder turns token trees into element trees using a Transform.
// A Builder is safe for concurrent Build calls; the produced element
// trees follow the single-writer model and are not synchronized.
type Builder struct {
	tf     Transform
	logger *zap.Logger

	mu    sync.Mutex
	cache map[uint64]*dom.Element
	group singleflight.Group
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder's logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder for the given dispatch table.
func NewBuilder(tf Transform, opts ...Option) *Builder {
	b := &Builder{
		tf:     tf,
		logger: zap.NewNop(),
		cache:  make(map[uint64]*dom.Element),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build transforms a complete token tree into an element tree, with
// origins set on every element derived from tokens. Repeated calls for
// the same tree version return the identical tree without recomputing;
// concurrent calls for the same version are deduplicated.
func (b *Builder) Build(tree *tokens.Tree) (*dom.Element, error) {
	b.mu.Lock()
	if root, ok := b.cache[tree.Version]; ok {
		b.mu.Unlock()
		return root, nil
	}
	b.mu.Unlock()

	v, err, _ := b.group.Do(strconv.FormatUint(tree.Version, 16), func() (any, error) {
		root, err := b.build(tree)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.cache[tree.Version] = root
		b.mu.Unlock()
		return root, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dom.Element), nil
}

func (b *Builder) build(tree *tokens.Tree) (*dom.Element, error) {
	rule := b.tf.Rule(tree.Root.Kind)
	if rule == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRule, tree.Root.Kind)
	}
	items, err := b.items(tree.Root, nil)
	if err != nil {
		return nil, err
	}
	root, err := rule(b, tree.Root, items)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("transform rule for root %q produced no element", tree.Root.Kind)
	}
	b.logger.Debug("built element tree",
		zap.Uint64("version", tree.Version),
		zap.Int("source_bytes", len(tree.Source)))
	return root, nil
}

// items transforms a context's children into rule inputs. reuse, when
// non-nil, may substitute an existing element for a child context.
func (b *Builder) items(ctx *tokens.Context, reuse func(*tokens.Context) *dom.Element) ([]Item, error) {
	var out []Item
	for _, child := range ctx.Children {
		switch n := child.(type) {
		case *tokens.Token:
			out = append(out, Item{Token: n})
		case *tokens.Context:
			if reuse != nil {
				if el := reuse(n); el != nil {
					out = append(out, Item{Elem: el})
					continue
				}
			}
			rule := b.tf.Rule(n.Kind)
			if rule == nil {
				// Unknown context: pass its tokens through so the
				// parent rule sees them as if unnested.
				for _, t := range n.Tokens() {
					out = append(out, Item{Token: t})
				}
				continue
			}
			items, err := b.items(n, reuse)
			if err != nil {
				return nil, err
			}
			el, err := rule(b, n, items)
			if err != nil {
				return nil, err
			}
			if el != nil {
				out = append(out, Item{Elem: el})
			}
		}
	}
	return out, nil
}

// Node constructs an element with its origin set from token ranges:
// the factory transform rules use for everything they build. head and
// tail are the tokens forming the element's own head and tail texts;
// for text variants the head value is read from the head tokens via
// Type.Parse (or taken verbatim for string heads).
func (b *Builder) Node(t *dom.Type, head, tail []*tokens.Token, children ...*dom.Element) (*dom.Element, error) {
	var el *dom.Element
	var err error
	if t.Variant == dom.TextVariant {
		var value any
		text := tokenText(head)
		if t.Parse != nil {
			value, err = t.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("reading %s head from %q: %w", t.Name, text, err)
			}
		} else {
			value = text
		}
		el, err = dom.NewText(t, value, children...)
	} else {
		el = dom.New(t, children...)
	}
	if err != nil {
		return nil, err
	}
	el.SetOrigin(originOf(head), originOf(tail))
	return el, nil
}

func tokenText(toks []*tokens.Token) string {
	if len(toks) == 1 {
		return toks[0].Text
	}
	s := ""
	for _, t := range toks {
		s += t.Text
	}
	return s
}

func originOf(toks []*tokens.Token) *dom.Origin {
	if len(toks) == 0 {
		return nil
	}
	return &dom.Origin{Pos: toks[0].Pos, End: toks[len(toks)-1].End}
}
