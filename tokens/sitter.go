package tokens

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// FromSitter converts a tree-sitter parse tree into a token Tree.
// Leaf nodes become tokens, interior nodes become contexts keyed by
// their node type. Whitespace between nodes is not represented, which
// matches the lexer model: gaps between sibling spans are untokenized.
func FromSitter(root *sitter.Node, source []byte) *Tree {
	ctx := &Context{Kind: Kind(root.Type())}
	convertSitter(root, source, ctx)
	return NewTree(ctx, source)
}

func convertSitter(n *sitter.Node, source []byte, into *Context) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.ChildCount() == 0 {
			pos, end := int(child.StartByte()), int(child.EndByte())
			into.Add(&Token{
				Kind: Kind(child.Type()),
				Pos:  pos,
				End:  end,
				Text: string(source[pos:end]),
			})
			continue
		}
		sub := &Context{Kind: Kind(child.Type())}
		convertSitter(child, source, sub)
		into.Add(sub)
	}
}
