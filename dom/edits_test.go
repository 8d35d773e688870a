package dom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lydom/dom"
	"lydom/edit"
	"lydom/lang/lily"
	"lydom/tokens"
)

func build(t *testing.T, source string) (*tokens.Tree, *dom.Element) {
	t.Helper()
	tree := lily.Parse([]byte(source))
	root, err := lily.NewBuilder().Build(tree)
	require.NoError(t, err)
	return tree, root
}

func notes(root *dom.Element) []*dom.Element {
	return root.FindDescendants(func(n *dom.Element) bool { return n.Is(lily.Note) })
}

func apply(t *testing.T, source string, edits []edit.Edit) string {
	t.Helper()
	out, _, err := edit.Apply([]byte(source), edits)
	require.NoError(t, err)
	return string(out)
}

func TestEdits_NoMutationNoEdits(t *testing.T) {
	source := "{ c d e f g }"
	tree, root := build(t, source)
	edits, err := root.Edits(tree)
	require.NoError(t, err)
	assert.Empty(t, edits)
}

// Every pitch letter mutated produces exactly one replacement per
// letter, covering just that letter's range: braces, spacing and
// everything else stay untouched.
func TestEdits_SuffixEveryNote(t *testing.T) {
	source := "{ c d e f g }"
	tree, root := build(t, source)

	for _, n := range notes(root) {
		require.NoError(t, n.SetHead(n.Head().(string)+"is"))
	}

	edits, err := root.Edits(tree)
	require.NoError(t, err)

	want := []edit.Edit{
		{Pos: 2, End: 3, Text: "cis"},
		{Pos: 4, End: 5, Text: "dis"},
		{Pos: 6, End: 7, Text: "eis"},
		{Pos: 8, End: 9, Text: "fis"},
		{Pos: 10, End: 11, Text: "gis"},
	}
	if diff := cmp.Diff(want, edits); diff != "" {
		t.Fatalf("edits mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "{ cis dis eis fis gis }", apply(t, source, edits))
}

func TestEdits_SingleHeadChange(t *testing.T) {
	source := "{ c d e f g }"
	tree, root := build(t, source)

	for _, n := range notes(root) {
		if n.Head() == "e" {
			require.NoError(t, n.SetHead("fis"))
		}
	}

	edits, err := root.Edits(tree)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, edit.Edit{Pos: 6, End: 7, Text: "fis"}, edits[0])
	assert.Equal(t, "{ c d fis f g }", apply(t, source, edits))
}

// Removal deletes the origin range plus the whitespace the removed
// subtree owned, never leaving a doubled separator.
func TestEdits_RemoveChild(t *testing.T) {
	source := "{ c d }"
	tree, root := build(t, source)

	all := notes(root)
	require.Len(t, all, 2)
	all[1].Detach()

	edits, err := root.Edits(tree)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "{ c }", apply(t, source, edits))
}

func TestEdits_RemoveLastBeforeTail(t *testing.T) {
	source := "{ c d e f g }"
	tree, root := build(t, source)
	ns := notes(root)
	ns[len(ns)-1].Detach()

	edits, err := root.Edits(tree)
	require.NoError(t, err)
	assert.Equal(t, "{ c d e f }", apply(t, source, edits))
}

// Appending a constructed element yields one insertion at the boundary
// after the last existing child, separating whitespace included.
func TestEdits_AppendConstructed(t *testing.T) {
	source := "{ c d }"
	tree, root := build(t, source)

	list := root.Child(0)
	require.True(t, list.Is(lily.MusicList))
	require.NoError(t, list.Append(dom.MustText(lily.Note, "e")))

	edits, err := root.Edits(tree)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, edit.Edit{Pos: 5, End: 5, Text: " e"}, edits[0])
	assert.Equal(t, "{ c d e }", apply(t, source, edits))
}

// Text the mutation never touched survives byte for byte, comments and
// line breaks included.
func TestEdits_PreservesUntouchedFormatting(t *testing.T) {
	source := "{ c % keep\nd }"
	tree, root := build(t, source)

	require.NoError(t, notes(root)[0].SetHead("cis"))

	edits, err := root.Edits(tree)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "{ cis % keep\nd }", apply(t, source, edits))
}

// Applying the edits and rebuilding gives a tree equal to the mutated
// one: the write-back round trip loses nothing.
func TestEdits_RoundTrip(t *testing.T) {
	source := "{ c d e }"
	tree, root := build(t, source)

	ns := notes(root)
	require.NoError(t, ns[0].SetHead("a"))
	ns[1].Detach()
	list := root.Child(0)
	require.NoError(t, list.Append(dom.MustText(lily.Note, "g")))

	edits, err := root.Edits(tree)
	require.NoError(t, err)
	edited := apply(t, source, edits)

	_, rebuilt := build(t, edited)
	assert.True(t, root.Equal(rebuilt), "rebuilt tree differs:\nmutated: %s\nrebuilt: %s", root.Dump(), rebuilt.Dump())
}

// Origins that no longer fit the token tree fail atomically: error and
// no partial edit list.
func TestEdits_StaleOrigin(t *testing.T) {
	_, root := build(t, "{ c d }")
	shorter := lily.Parse([]byte("{ c }"))

	edits, err := root.Edits(shorter)
	assert.ErrorIs(t, err, dom.ErrStaleOrigin)
	assert.Nil(t, edits)
}

// EditsRange with explicit bounds never deletes outside the range.
func TestEditsRange_RestrictsDeletion(t *testing.T) {
	source := "{ c d }"
	tree, root := build(t, source)

	edits, err := root.EditsRange(tree.Root, 0, 5)
	require.NoError(t, err)
	assert.Empty(t, edits, "unmutated tree emits nothing even with narrowed bounds")
}
