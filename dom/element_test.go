package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testList = &Type{
		Name:    "List",
		Variant: BlockVariant,
		Head:    "{",
		Tail:    "}",
		Spacing: Spacing{AfterHead: " ", Between: " ", BeforeTail: " "},
	}
	testGroup = &Type{Name: "Group", Variant: ContainerVariant, Spacing: Spacing{Between: " "}}
	testWord  = &Type{Name: "Word", Variant: TextVariant, HeadKind: StringHead}
)

func TestNewText_ChecksHeadKind(t *testing.T) {
	_, err := NewText(testWord, 42)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewText(testList, "x")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	el, err := NewText(testWord, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", el.Head())
	assert.Equal(t, "hello", el.HeadText())
}

func TestSetHead(t *testing.T) {
	el := MustText(testWord, "c")
	require.False(t, el.Modified())

	t.Run("wrong kind", func(t *testing.T) {
		assert.ErrorIs(t, el.SetHead(4), ErrTypeMismatch)
		assert.False(t, el.Modified())
	})

	t.Run("equal value does not mark modified", func(t *testing.T) {
		require.NoError(t, el.SetHead("c"))
		assert.False(t, el.Modified())
	})

	t.Run("new value marks modified", func(t *testing.T) {
		require.NoError(t, el.SetHead("cis"))
		assert.True(t, el.Modified())
		assert.Equal(t, "cis", el.HeadText())
	})

	t.Run("fixed heads are read-only", func(t *testing.T) {
		block := New(testList)
		assert.ErrorIs(t, block.SetHead("("), ErrTypeMismatch)
	})
}

func TestHeadText_Toggle(t *testing.T) {
	breakType := &Type{
		Name:     "Break",
		Variant:  TextVariant,
		HeadKind: ToggleHead,
		Toggle:   [2]string{`\break`, `\noBreak`},
	}
	el := MustText(breakType, true)
	assert.Equal(t, `\break`, el.HeadText())
	require.NoError(t, el.SetHead(false))
	assert.Equal(t, `\noBreak`, el.HeadText())
}

func TestHeadText_FractionDefaultFormat(t *testing.T) {
	durType := &Type{Name: "Dur", Variant: TextVariant, HeadKind: FractionHead}
	el := MustText(durType, Frac(3, 8))
	assert.Equal(t, "4.", el.HeadText())
}

func TestOriginRange(t *testing.T) {
	a := MustText(testWord, "a")
	a.SetOrigin(&Origin{Pos: 2, End: 3}, nil)
	b := MustText(testWord, "b")
	b.SetOrigin(&Origin{Pos: 4, End: 5}, nil)
	group := New(testGroup, a, b)

	pos, end, ok := group.OriginRange()
	require.True(t, ok)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 5, end)
	assert.True(t, group.Contains(4))
	assert.False(t, group.Contains(5))

	fresh := New(testGroup, MustText(testWord, "x"))
	_, _, ok = fresh.OriginRange()
	assert.False(t, ok)
	assert.Equal(t, -1, fresh.Pos())
}

func TestShiftOrigin(t *testing.T) {
	a := MustText(testWord, "a")
	a.SetOrigin(&Origin{Pos: 2, End: 3}, nil)
	b := MustText(testWord, "b")
	b.SetOrigin(&Origin{Pos: 10, End: 11}, nil)
	group := New(testGroup, a, b)

	group.ShiftOrigin(5, 3)
	assert.Equal(t, &Origin{Pos: 2, End: 3}, a.HeadOrigin(), "origin before the shift point stays")
	assert.Equal(t, &Origin{Pos: 13, End: 14}, b.HeadOrigin())
}

func TestCopy(t *testing.T) {
	a := MustText(testWord, "a")
	a.SetOrigin(&Origin{Pos: 0, End: 1}, nil)
	a.SetSpaceBefore("\n")
	group := New(testGroup, a)

	c := group.Copy()
	require.Equal(t, 1, c.Len())
	cc := c.Child(0)
	assert.Equal(t, "a", cc.Head())
	assert.Nil(t, cc.HeadOrigin(), "Copy drops origins")
	assert.Equal(t, "\n", cc.SpaceBefore(), "Copy keeps spacing overrides")
	assert.Same(t, c, cc.Parent())

	co := group.CopyWithOrigin()
	assert.Equal(t, &Origin{Pos: 0, End: 1}, co.Child(0).HeadOrigin())
}

func TestSpacingOverrides(t *testing.T) {
	el := New(testList)
	assert.Equal(t, " ", el.SpaceBetween(), "type default")

	el.SetSpaceBetween("\n")
	assert.Equal(t, "\n", el.SpaceBetween())

	// Setting the default back removes the override.
	el.SetSpaceBetween(" ")
	assert.Equal(t, " ", el.SpaceBetween())
}

func TestNew_PanicsOnTextVariant(t *testing.T) {
	assert.Panics(t, func() { New(testWord) })
}
