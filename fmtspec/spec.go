// Package fmtspec parses printf conversion directives.
//
// A directive is %[flags][width][.precision][length]specifier:
//
//	flags      := any of '0' '-' '+' ' ' '#', any order, any count
//	width      := decimal-digits | '*'
//	precision  := '.' [decimal-digits | '*']
//	length     := 'h' | 'hh' | 'l' | 'll' | 'z' | 'j' | 't'
//	specifier  := one byte
//
// ParseDirective performs a single strict left-to-right pass and never
// fails: whatever byte ends the directive is recorded as the specifier, and
// unrecognized specifiers are emitted literally by the driver rather than
// treated as errors.
package fmtspec

import "math/bits"

// Flags is the per-directive flag set.
type Flags uint

const (
	// FlagZeroPad pads with leading zeros instead of spaces.
	FlagZeroPad Flags = 1 << iota
	// FlagLeft left-justifies within the field width.
	FlagLeft
	// FlagPlus forces a sign on signed conversions.
	FlagPlus
	// FlagSpace emits a space where the sign would go.
	FlagSpace
	// FlagHash selects the alternate form (0x/0X/0b/leading-0 prefixes).
	FlagHash
	// FlagUpper selects uppercase digits and exponent letters.
	FlagUpper
	// FlagChar narrows the argument to the 8-bit class (hh).
	FlagChar
	// FlagShort narrows the argument to the 16-bit class (h).
	FlagShort
	// FlagLong selects the long argument class (l).
	FlagLong
	// FlagLongLong selects the long-long argument class (ll).
	FlagLongLong
	// FlagPrecision records that an explicit precision was supplied.
	FlagPrecision
	// FlagAdaptExp selects the adaptive g/G exponent behavior.
	FlagAdaptExp
	// FlagPointer marks a pointer conversion (similar to, but distinct
	// from, the alternate form).
	FlagPointer
)

// MaxField bounds a single directive's field width and precision. Wider
// requests saturate here rather than growing without bound; the cap keeps
// the engine's per-directive work statically bounded on hostile format
// strings.
const MaxField = 1 << 16

// Spec is one parsed conversion directive. It is built per directive and
// discarded after the directive is emitted.
type Spec struct {
	Flags     Flags
	Width     int
	Precision int

	// WidthFromArg and PrecFromArg mark a '*' width or precision whose
	// value must be fetched from the argument list by the driver.
	WidthFromArg bool
	PrecFromArg  bool

	// Verb is the specifier byte, or 0 when the format string ended
	// inside the directive.
	Verb byte
}

// ParseDirective parses the directive body starting at pos, which must
// point just past the '%'. It returns the parsed spec and the index of the
// first byte after the directive.
func ParseDirective(format string, pos int) (Spec, int) {
	var sp Spec

flagLoop:
	for pos < len(format) {
		switch format[pos] {
		case '0':
			sp.Flags |= FlagZeroPad
		case '-':
			sp.Flags |= FlagLeft
		case '+':
			sp.Flags |= FlagPlus
		case ' ':
			sp.Flags |= FlagSpace
		case '#':
			sp.Flags |= FlagHash
		default:
			break flagLoop
		}
		pos++
	}

	if pos < len(format) {
		if isDigit(format[pos]) {
			sp.Width, pos = atoi(format, pos)
		} else if format[pos] == '*' {
			sp.WidthFromArg = true
			pos++
		}
	}

	if pos < len(format) && format[pos] == '.' {
		// A bare '.' means precision zero.
		sp.Flags |= FlagPrecision
		pos++
		if pos < len(format) {
			if isDigit(format[pos]) {
				sp.Precision, pos = atoi(format, pos)
			} else if format[pos] == '*' {
				sp.PrecFromArg = true
				pos++
			}
		}
	}

	if pos < len(format) {
		switch format[pos] {
		case 'l':
			sp.Flags |= FlagLong
			pos++
			if pos < len(format) && format[pos] == 'l' {
				sp.Flags |= FlagLongLong
				pos++
			}
		case 'h':
			sp.Flags |= FlagShort
			pos++
			if pos < len(format) && format[pos] == 'h' {
				sp.Flags |= FlagChar
				pos++
			}
		case 'z', 'j', 't':
			// size_t/intmax_t/ptrdiff_t join the class matching the
			// native word size.
			sp.Flags |= nativeWordFlag
			pos++
		}
	}

	if pos < len(format) {
		sp.Verb = format[pos]
		pos++
	}
	return sp, pos
}

var nativeWordFlag = func() Flags {
	if bits.UintSize == 64 {
		return FlagLongLong
	}
	return FlagLong
}()

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// atoi reads a run of decimal digits, saturating at MaxField.
func atoi(s string, pos int) (int, int) {
	n := 0
	for pos < len(s) && isDigit(s[pos]) {
		if n < MaxField {
			n = n*10 + int(s[pos]-'0')
		}
		pos++
	}
	if n > MaxField {
		n = MaxField
	}
	return n, pos
}
