package lily_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lydom/dom"
	"lydom/lang/lily"
)

func buildDoc(t *testing.T, source string) *dom.Element {
	t.Helper()
	root, err := lily.NewBuilder().Build(lily.Parse([]byte(source)))
	require.NoError(t, err)
	return root
}

func TestBuild_DocumentStructure(t *testing.T) {
	root := buildDoc(t, "\\relative { c'4 d } % end")

	require.True(t, root.Is(lily.Document))
	require.Equal(t, 3, root.Len())
	assert.True(t, root.Child(0).Is(lily.Command))
	assert.Equal(t, "relative", root.Child(0).Head())
	assert.True(t, root.Child(1).Is(lily.MusicList))
	assert.True(t, root.Child(2).Is(lily.Comment))
	assert.Equal(t, " end", root.Child(2).Head())

	list := root.Child(1)
	require.Equal(t, 2, list.Len())
	c := list.Child(0)
	require.True(t, c.Is(lily.Note))
	assert.Equal(t, "c", c.Head())
	require.Equal(t, 2, c.Len())
	assert.True(t, c.Child(0).Is(lily.Octave))
	assert.True(t, c.Child(1).Is(lily.Duration))
}

func TestBuild_Simultaneous(t *testing.T) {
	root := buildDoc(t, "<< c d >>")
	sim := root.Child(0)
	require.True(t, sim.Is(lily.Sim))
	assert.Equal(t, 2, sim.Len())
}

func TestBuild_Scheme(t *testing.T) {
	root := buildDoc(t, "#(set! x 1)")
	scheme := root.Child(0)
	require.True(t, scheme.Is(lily.Scheme))
	require.Equal(t, 3, scheme.Len())
	assert.Equal(t, "set!", scheme.Child(0).Head())
}

func TestWrite_NormalizesSpacing(t *testing.T) {
	root := buildDoc(t, "{c    d\n\ne}")
	assert.Equal(t, "{ c d e }", root.Write())
}

func TestWrite_GluesMarksToNote(t *testing.T) {
	root := buildDoc(t, "{ c'4. }")
	assert.Equal(t, "{ c'4. }", root.Write())
}

func TestWrite_FormatsTypedHeads(t *testing.T) {
	cases := []struct {
		el   *dom.Element
		want string
	}{
		{dom.MustText(lily.Octave, 2), "''"},
		{dom.MustText(lily.Octave, -1), ","},
		{dom.MustText(lily.Octave, 0), ""},
		{dom.MustText(lily.Duration, dom.Frac(3, 8)), "4."},
		{dom.MustText(lily.Command, "clef"), `\clef`},
		{dom.MustText(lily.String, "hello"), `"hello"`},
		{dom.MustText(lily.Comment, " hi"), "% hi"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.el.HeadText())
	}
}

func TestTypeByName(t *testing.T) {
	assert.Same(t, lily.Note, lily.TypeByName("Note"))
	assert.Same(t, lily.MusicList, lily.TypeByName("MusicList"))
	assert.Nil(t, lily.TypeByName("Nope"))
}

// Building and serializing is stable: writing the built tree and
// rebuilding from that output gives an equal tree.
func TestBuild_WriteStable(t *testing.T) {
	for _, src := range []string{
		"{ c d e f g }",
		"\\clef \"bass\" { c'2 d,4. }",
		"<< { c } { d } >>",
	} {
		first := buildDoc(t, src)
		second := buildDoc(t, first.Write())
		assert.True(t, first.Equal(second), "unstable for %q: %s vs %s", src, first.Dump(), second.Dump())
	}
}
