package lily

import (
	"lydom/tokens"
)

// Context kinds produced by the lexer.
const (
	KindRoot   tokens.Kind = "lily.root"
	KindList   tokens.Kind = "lily.musiclist"
	KindSim    tokens.Kind = "lily.simultaneous"
	KindPitch  tokens.Kind = "lily.pitch"
	KindScheme tokens.Kind = "lily.scheme"
)

// Token kinds produced by the lexer.
const (
	KindOpen     tokens.Kind = "open"
	KindClose    tokens.Kind = "close"
	KindNote     tokens.Kind = "note"
	KindOctave   tokens.Kind = "octave"
	KindDuration tokens.Kind = "duration"
	KindCommand  tokens.Kind = "command"
	KindString   tokens.Kind = "string"
	KindComment  tokens.Kind = "comment"
	KindWord     tokens.Kind = "word"
)

// Parse tokenizes LilyPond-flavoured source into a token tree.
// Whitespace is not tokenized; token ranges cover printable text only.
// The lexer never fails: unrecognized input becomes word tokens and
// unbalanced delimiters close at end of input.
func Parse(source []byte) *tokens.Tree {
	l := &lexer{src: source}
	l.push(KindRoot)
	l.run()
	return tokens.NewTree(l.stack[0], source)
}

type lexer struct {
	src   []byte
	pos   int
	stack []*tokens.Context
}

func (l *lexer) push(kind tokens.Kind) *tokens.Context {
	c := &tokens.Context{Kind: kind}
	if len(l.stack) > 0 {
		l.top().Add(c)
	}
	l.stack = append(l.stack, c)
	return c
}

func (l *lexer) pop() {
	if len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

func (l *lexer) top() *tokens.Context { return l.stack[len(l.stack)-1] }

func (l *lexer) emit(kind tokens.Kind, pos, end int) {
	l.top().Add(&tokens.Token{Kind: kind, Pos: pos, End: end, Text: string(l.src[pos:end])})
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++

		case c == '%':
			start := l.pos
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
			l.emit(KindComment, start, l.pos)

		case c == '\\':
			start := l.pos
			l.pos++
			for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
				l.pos++
			}
			l.emit(KindCommand, start, l.pos)

		case c == '"':
			start := l.pos
			l.emit(KindString, start, l.scanString())

		case c == '{':
			l.push(KindList)
			l.emit(KindOpen, l.pos, l.pos+1)
			l.pos++

		case c == '}':
			if l.top().Kind == KindList {
				l.emit(KindClose, l.pos, l.pos+1)
				l.pos++
				l.pop()
			} else {
				l.emit(KindWord, l.pos, l.pos+1)
				l.pos++
			}

		case c == '<' && l.peek(1) == '<':
			l.push(KindSim)
			l.emit(KindOpen, l.pos, l.pos+2)
			l.pos += 2

		case c == '>' && l.peek(1) == '>':
			if l.top().Kind == KindSim {
				l.emit(KindClose, l.pos, l.pos+2)
				l.pos += 2
				l.pop()
			} else {
				l.emit(KindWord, l.pos, l.pos+2)
				l.pos += 2
			}

		case c == '#' && l.peek(1) == '(':
			l.scheme()

		case isLetter(c):
			l.word()

		default:
			l.emit(KindWord, l.pos, l.pos+1)
			l.pos++
		}
	}
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

// scanString consumes a double-quoted string including the quotes and
// returns the end position. Backslash escapes the next byte.
func (l *lexer) scanString() int {
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case '"':
			l.pos++
			return l.pos
		default:
			l.pos++
		}
	}
	return l.pos
}

// scheme consumes a #( ... ) expression into its own context. Nested
// parentheses stay word tokens; only the balancing close paren ends
// the context.
func (l *lexer) scheme() {
	l.push(KindScheme)
	l.emit(KindOpen, l.pos, l.pos+2)
	l.pos += 2
	depth := 0
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '(':
			l.emit(KindWord, l.pos, l.pos+1)
			l.pos++
			depth++
		case c == ')':
			if depth == 0 {
				l.emit(KindClose, l.pos, l.pos+1)
				l.pos++
				l.pop()
				return
			}
			l.emit(KindWord, l.pos, l.pos+1)
			l.pos++
			depth--
		case c == '"':
			qs := l.pos
			l.emit(KindString, qs, l.scanString())
		default:
			start := l.pos
			for l.pos < len(l.src) && !isSpace(l.src[l.pos]) &&
				l.src[l.pos] != '(' && l.src[l.pos] != ')' && l.src[l.pos] != '"' {
				l.pos++
			}
			l.emit(KindWord, start, l.pos)
		}
	}
	l.pop()
}

// word scans a run of letters. Pitch names (and the rests r and s)
// open a pitch context that also captures trailing octave and duration
// marks, so c'4 arrives as one context of three tokens.
func (l *lexer) word() {
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || l.src[l.pos] == '_' || l.src[l.pos] == '-') {
		l.pos++
	}
	// A word glued to digits (time4) stays one word; a pitch followed
	// by digits is a duration mark handled below.
	text := string(l.src[start:l.pos])
	if !isPitch(text) {
		for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos]) || l.src[l.pos] == '_' || l.src[l.pos] == '-' || l.src[l.pos] == '.') {
			l.pos++
		}
		l.emit(KindWord, start, l.pos)
		return
	}

	l.push(KindPitch)
	l.emit(KindNote, start, l.pos)
	if mark := l.scanOctave(); mark > l.pos {
		l.emit(KindOctave, l.pos, mark)
		l.pos = mark
	}
	if mark := l.scanDuration(); mark > l.pos {
		l.emit(KindDuration, l.pos, mark)
		l.pos = mark
	}
	l.pop()
}

func (l *lexer) scanOctave() int {
	i := l.pos
	for i < len(l.src) && (l.src[i] == '\'' || l.src[i] == ',') {
		i++
	}
	return i
}

func (l *lexer) scanDuration() int {
	i := l.pos
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}
	if i == l.pos {
		return l.pos
	}
	for i < len(l.src) && l.src[i] == '.' {
		i++
	}
	return i
}

// isPitch reports whether a word is a note name: a-g with any run of
// is/es alteration suffixes, or the rests r and s. The contracted flat
// spellings of a and e (as, es, eses, ...) count too.
func isPitch(word string) bool {
	if word == "r" || word == "s" {
		return true
	}
	if len(word) == 0 || word[0] < 'a' || word[0] > 'g' {
		return false
	}
	rest := word[1:]
	if (word[0] == 'a' || word[0] == 'e') && len(rest) > 0 && rest[0] == 's' {
		rest = rest[1:]
	}
	for len(rest) >= 2 {
		if rest[:2] != "is" && rest[:2] != "es" {
			return false
		}
		rest = rest[2:]
	}
	return len(rest) == 0
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
