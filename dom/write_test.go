package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrite_Block(t *testing.T) {
	list := New(testList, word("c", -1), word("d", -1))
	assert.Equal(t, "{ c d }", list.Write())
}

func TestWrite_Nested(t *testing.T) {
	inner := New(testList, word("e", -1))
	outer := New(testList, word("c", -1), inner)
	assert.Equal(t, "{ c { e } }", outer.Write())
}

func TestWrite_EmptyBlock(t *testing.T) {
	list := New(testList)
	assert.Equal(t, "{ }", list.Write())
}

// A text element's children glue directly when the type declares no
// whitespace, the way octave and duration marks attach to a note.
func TestWrite_GluedChildren(t *testing.T) {
	mark := &Type{Name: "Mark", Variant: TextVariant, HeadKind: StringHead}
	note := MustText(testWord, "c", MustText(mark, "'"), MustText(mark, "4"))
	assert.Equal(t, "c'4", note.Write())
}

// Serialization consults nothing but the tree: origins do not change
// the output, and writing twice gives identical text.
func TestWrite_PureFunctionOfTree(t *testing.T) {
	mk := func(withOrigin bool) *Element {
		a := word("c", -1)
		b := word("d", -1)
		if withOrigin {
			a.SetOrigin(&Origin{Pos: 20, End: 21}, nil)
			b.SetOrigin(&Origin{Pos: 40, End: 41}, nil)
		}
		return New(testList, a, b)
	}
	plain := mk(false)
	assert.Equal(t, plain.Write(), mk(true).Write())
	assert.Equal(t, plain.Write(), plain.Write())
}

// The strongest whitespace requirement at a junction wins; an override
// on either neighbor produces the same result.
func TestWrite_JunctionUsesStrongestSpace(t *testing.T) {
	a := word("c", -1)
	a.SetSpaceAfter("\n")
	list := New(testList, a, word("d", -1))
	assert.Equal(t, "{ c\nd }", list.Write())

	b := word("d", -1)
	b.SetSpaceBefore("\n")
	list2 := New(testList, word("c", -1), b)
	assert.Equal(t, "{ c\nd }", list2.Write())
}
