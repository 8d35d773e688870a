package transform

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lydom/dom"
	"lydom/tokens"
)

// Update produces the element tree for newTree, reusing subtrees of
// prev whose origin lies entirely outside the changed span. The result
// is value-equal to a full Build of newTree; reuse is an optimization,
// never a semantic difference. When the change cannot be localized the
// update falls back to a full rebuild by itself.
//
// Reused subtrees are detached from prev and moved into the new tree,
// with origins after the change shifted by the length delta; prev must
// not be used afterwards.
func (b *Builder) Update(prev *dom.Element, prevTree, newTree *tokens.Tree, ch tokens.Change) (*dom.Element, error) {
	root, err := b.Incremental(prev, prevTree, newTree, ch)
	if errors.Is(err, ErrIncrementalRebuild) {
		b.logger.Debug("incremental update abandoned, rebuilding",
			zap.Int("change_start", ch.Start),
			zap.Int("change_old_end", ch.OldEnd),
			zap.Int("change_new_end", ch.NewEnd),
			zap.Error(err))
		return b.Build(newTree)
	}
	return root, err
}

// Incremental is Update without the fallback: it fails with
// ErrIncrementalRebuild when the change region cannot be resolved
// against the previous tree.
func (b *Builder) Incremental(prev *dom.Element, prevTree, newTree *tokens.Tree, ch tokens.Change) (*dom.Element, error) {
	b.mu.Lock()
	if root, ok := b.cache[newTree.Version]; ok {
		b.mu.Unlock()
		return root, nil
	}
	b.mu.Unlock()

	if ch.Start > ch.OldEnd || ch.Start > ch.NewEnd ||
		ch.OldEnd > len(prevTree.Source) || ch.NewEnd > len(newTree.Source) {
		return nil, fmt.Errorf("%w: change %d:%d->%d out of bounds", ErrIncrementalRebuild, ch.Start, ch.OldEnd, ch.NewEnd)
	}

	index := reuseIndex(prev)
	delta := ch.Delta()
	reused := 0

	reuse := func(ctx *tokens.Context) *dom.Element {
		pos, end := ctx.Span()
		if pos < 0 {
			return nil
		}
		var oldPos, oldEnd int
		switch {
		case end <= ch.Start:
			oldPos, oldEnd = pos, end
		case pos >= ch.NewEnd:
			oldPos, oldEnd = pos-delta, end-delta
		default:
			return nil // overlaps the invalidated span
		}
		el, ok := index[dom.Origin{Pos: oldPos, End: oldEnd}]
		if !ok {
			return nil
		}
		if oldEnd > len(prevTree.Source) ||
			!bytes.Equal(prevTree.Source[oldPos:oldEnd], newTree.Source[pos:end]) {
			return nil
		}
		el.Detach()
		if delta != 0 && oldPos != pos {
			el.ShiftOrigin(0, delta)
		}
		reused++
		return el
	}

	rule := b.tf.Rule(newTree.Root.Kind)
	if rule == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRule, newTree.Root.Kind)
	}
	items, err := b.items(newTree.Root, reuse)
	if err != nil {
		return nil, err
	}
	root, err := rule(b, newTree.Root, items)
	if err != nil || root == nil {
		return nil, fmt.Errorf("%w: root rule failed: %v", ErrIncrementalRebuild, err)
	}

	b.logger.Debug("incremental update",
		zap.Uint64("version", newTree.Version),
		zap.Int("delta", delta),
		zap.Int("reused_subtrees", reused))

	b.mu.Lock()
	b.cache[newTree.Version] = root
	b.mu.Unlock()
	return root, nil
}

// reuseIndex maps origin ranges to the shallowest clean element of the
// previous tree covering exactly that range. Subtrees touched by user
// mutation (modified heads, constructed nodes without any origin) are
// excluded: reusing them would diverge from a full rebuild.
func reuseIndex(prev *dom.Element) map[dom.Origin]*dom.Element {
	index := make(map[dom.Origin]*dom.Element)
	prev.Walk(func(n *dom.Element) bool {
		if !subtreeClean(n) {
			return true // children may still be reusable
		}
		pos, end, ok := n.OriginRange()
		if !ok {
			return true
		}
		key := dom.Origin{Pos: pos, End: end}
		if _, exists := index[key]; !exists {
			index[key] = n
		}
		return true
	})
	return index
}

func subtreeClean(n *dom.Element) bool {
	clean := true
	n.Walk(func(m *dom.Element) bool {
		if m.Modified() || m.Pos() < 0 {
			clean = false
			return false
		}
		return true
	})
	return clean
}
