package dom

import (
	"fmt"
	"strconv"
	"strings"
)

// HeadKind declares the value type a Text element's head carries.
type HeadKind uint8

const (
	// NoHead is used by Container, Head and Block variants.
	NoHead HeadKind = iota

	// StringHead holds an arbitrary string (note names, words).
	StringHead

	// IntHead holds an integer (octave marks, directions).
	IntHead

	// FractionHead holds a Fraction (durations).
	FractionHead

	// ToggleHead holds a bool mapped to two fixed spellings.
	ToggleHead
)

func (k HeadKind) String() string {
	switch k {
	case NoHead:
		return "none"
	case StringHead:
		return "string"
	case IntHead:
		return "int"
	case FractionHead:
		return "fraction"
	case ToggleHead:
		return "toggle"
	}
	return "unknown"
}

// check reports whether v has the dynamic type the kind requires.
func (k HeadKind) check(v any) bool {
	switch k {
	case StringHead:
		_, ok := v.(string)
		return ok
	case IntHead:
		_, ok := v.(int)
		return ok
	case FractionHead:
		_, ok := v.(Fraction)
		return ok
	case ToggleHead:
		_, ok := v.(bool)
		return ok
	}
	return v == nil
}

// Fraction is a rational number used for note durations. It is kept in
// lowest terms by Frac.
type Fraction struct {
	Num int
	Den int
}

// Frac returns the reduced fraction num/den.
func Frac(num, den int) Fraction {
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g > 1 {
		num /= g
		den /= g
	}
	return Fraction{Num: num, Den: den}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (f Fraction) String() string {
	if f.Den == 1 {
		return strconv.Itoa(f.Num)
	}
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// Duration formats the fraction as LilyPond duration notation: 1/4
// becomes "4", 3/8 becomes "4." (a dotted quarter), 2 becomes
// "\breve". Returns false when the value is not expressible as a base
// power-of-two length with dots.
func (f Fraction) Duration() (string, bool) {
	if f.Num <= 0 || f.Den <= 0 {
		return "", false
	}
	// a duration with d dots has value (2^(d+1) - 1) / 2^d * base
	for dots := 0; dots < 8; dots++ {
		factorNum := 1<<(dots+1) - 1
		factorDen := 1 << dots
		// base = f / factor
		base := Frac(f.Num*factorDen, f.Den*factorNum)
		if base.Num == 1 && isPowerOfTwo(base.Den) {
			return strconv.Itoa(base.Den) + strings.Repeat(".", dots), true
		}
		if base.Den == 1 {
			var name string
			switch base.Num {
			case 1:
				name = "1"
			case 2:
				name = `\breve`
			case 4:
				name = `\longa`
			case 8:
				name = `\maxima`
			default:
				continue
			}
			return name + strings.Repeat(".", dots), true
		}
	}
	return "", false
}

// ParseDuration parses LilyPond duration notation into a Fraction.
func ParseDuration(text string) (Fraction, error) {
	base := text
	dots := 0
	for strings.HasSuffix(base, ".") {
		base = base[:len(base)-1]
		dots++
	}
	var f Fraction
	switch base {
	case `\breve`:
		f = Frac(2, 1)
	case `\longa`:
		f = Frac(4, 1)
	case `\maxima`:
		f = Frac(8, 1)
	default:
		n, err := strconv.Atoi(base)
		if err != nil || n <= 0 {
			return Fraction{}, fmt.Errorf("invalid duration %q", text)
		}
		f = Frac(1, n)
	}
	// apply dots: each dot adds half of the previous value
	factorNum := 1<<(dots+1) - 1
	factorDen := 1 << dots
	return Frac(f.Num*factorNum, f.Den*factorDen), nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// formatHead renders a typed head value with the default rule for its
// kind. Element types may override this with Type.Format.
func formatHead(k HeadKind, v any) string {
	switch k {
	case StringHead:
		return v.(string)
	case IntHead:
		return strconv.Itoa(v.(int))
	case FractionHead:
		f := v.(Fraction)
		if s, ok := f.Duration(); ok {
			return s
		}
		return f.String()
	}
	return ""
}
