// Package lily is a small LilyPond-flavoured grammar: a lexer that
// produces token trees and the element types and transform rules that
// turn them into semantic trees. It covers music lists, simultaneous
// music, notes with octave and duration marks, commands, strings,
// scheme expressions and comments.
package lily

import (
	"fmt"
	"strings"

	"lydom/dom"
)

// Element types of the grammar. Types are compared by pointer; these
// vars are the identities.
var (
	// Document is the top level, one child per toplevel expression.
	Document = &dom.Type{
		Name:    "Document",
		Variant: dom.ContainerVariant,
		Spacing: dom.Spacing{Between: "\n", After: "\n"},
	}

	// MusicList is sequential music: { ... }.
	MusicList = &dom.Type{
		Name:    "MusicList",
		Variant: dom.BlockVariant,
		Head:    "{",
		Tail:    "}",
		Spacing: dom.Spacing{AfterHead: " ", Between: " ", BeforeTail: " "},
	}

	// Sim is simultaneous music: << ... >>.
	Sim = &dom.Type{
		Name:    "Sim",
		Variant: dom.BlockVariant,
		Head:    "<<",
		Tail:    ">>",
		Spacing: dom.Spacing{AfterHead: " ", Between: " ", BeforeTail: " "},
	}

	// Note is a pitch; octave and duration marks are its children and
	// attach without whitespace (c'4).
	Note = &dom.Type{
		Name:     "Note",
		Variant:  dom.TextVariant,
		HeadKind: dom.StringHead,
	}

	// Octave holds the octave mark count: positive for apostrophes,
	// negative for commas.
	Octave = &dom.Type{
		Name:     "Octave",
		Variant:  dom.TextVariant,
		HeadKind: dom.IntHead,
		Format:   formatOctave,
		Parse:    parseOctave,
	}

	// Duration holds a length as a fraction of a whole note.
	Duration = &dom.Type{
		Name:     "Duration",
		Variant:  dom.TextVariant,
		HeadKind: dom.FractionHead,
		Format:   formatDuration,
		Parse:    parseDuration,
	}

	// Command is a backslashed word: \relative, \clef, \time.
	Command = &dom.Type{
		Name:     "Command",
		Variant:  dom.TextVariant,
		HeadKind: dom.StringHead,
		Format:   func(v any) string { return `\` + v.(string) },
		Parse: func(text string) (any, error) {
			return strings.TrimPrefix(text, `\`), nil
		},
	}

	// Scheme is an embedded scheme expression: #( ... ).
	Scheme = &dom.Type{
		Name:    "Scheme",
		Variant: dom.BlockVariant,
		Head:    "#(",
		Tail:    ")",
		Spacing: dom.Spacing{Between: " "},
	}

	// Symbol is a bare word with no further meaning to this grammar.
	Symbol = &dom.Type{
		Name:     "Symbol",
		Variant:  dom.TextVariant,
		HeadKind: dom.StringHead,
	}

	// String is a double-quoted string; the head value is unquoted.
	String = &dom.Type{
		Name:     "String",
		Variant:  dom.TextVariant,
		HeadKind: dom.StringHead,
		Format:   func(v any) string { return `"` + v.(string) + `"` },
		Parse: func(text string) (any, error) {
			return strings.Trim(text, `"`), nil
		},
	}

	// Comment is a line comment; the head value excludes the marker.
	Comment = &dom.Type{
		Name:     "Comment",
		Variant:  dom.TextVariant,
		HeadKind: dom.StringHead,
		Format:   func(v any) string { return "%" + v.(string) },
		Parse: func(text string) (any, error) {
			return strings.TrimPrefix(text, "%"), nil
		},
		Spacing: dom.Spacing{After: "\n"},
	}
)

// TypeByName resolves a type by its declared name, or nil.
func TypeByName(name string) *dom.Type {
	for _, t := range []*dom.Type{
		Document, MusicList, Sim, Note, Octave, Duration,
		Command, Scheme, Symbol, String, Comment,
	} {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func formatOctave(v any) string {
	n := v.(int)
	if n >= 0 {
		return strings.Repeat("'", n)
	}
	return strings.Repeat(",", -n)
}

func parseOctave(text string) (any, error) {
	n := 0
	for _, r := range text {
		switch r {
		case '\'':
			n++
		case ',':
			n--
		default:
			return nil, fmt.Errorf("octave mark %q: unexpected %q", text, r)
		}
	}
	return n, nil
}

func formatDuration(v any) string {
	f := v.(dom.Fraction)
	if s, ok := f.Duration(); ok {
		return s
	}
	return f.String()
}

func parseDuration(text string) (any, error) {
	f, err := dom.ParseDuration(text)
	if err != nil {
		return nil, err
	}
	return f, nil
}
