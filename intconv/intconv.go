// Package intconv converts unsigned magnitudes into digit text in bases 2,
// 8, 10, and 16, and emits reversed digit buffers with width padding.
//
// Digits are built least-significant-first into a fixed-size working
// buffer. Writes beyond the buffer capacity are silently dropped; the
// capacity exceeds the digit count of any 64-bit value in the supported
// bases together with its sign or prefix, so truncation cannot occur for
// in-range inputs.
package intconv

import (
	"github.com/lattice-substrate/nanofmt/fmtsink"
	"github.com/lattice-substrate/nanofmt/fmtspec"
)

// BufSize is the reversed digit buffer capacity.
const BufSize = 32

// Base is a supported numeric base.
type Base uint8

// Supported bases.
const (
	Binary  Base = 2
	Octal   Base = 8
	Decimal Base = 10
	Hex     Base = 16
)

// EmitReversed writes buf, which holds characters least-significant-first,
// through out in forward order with width padding: spaces on the left by
// default, trailing spaces when left-justified. Zero padding is interleaved
// into the reversed buffer by the converters before this point, so the
// zero-pad flag only suppresses the leading spaces here.
func EmitReversed(out fmtsink.Sink, cur fmtsink.Cursor, buf []byte, width int, flags fmtspec.Flags) fmtsink.Cursor {
	start := cur.Idx

	if flags&(fmtspec.FlagLeft|fmtspec.FlagZeroPad) == 0 {
		for i := len(buf); i < width; i++ {
			cur = cur.Put(out, ' ')
		}
	}

	for i := len(buf) - 1; i >= 0; i-- {
		cur = cur.Put(out, buf[i])
	}

	if flags&fmtspec.FlagLeft != 0 {
		for cur.Idx-start < width {
			cur = cur.Put(out, ' ')
		}
	}

	return cur
}

// Format converts value into base digits with sign, precision, zero
// padding, and alternate-form prefixes applied, then hands the reversed
// buffer to EmitReversed.
//
// A zero value with an explicit precision of zero produces no digits. The
// alternate form is dropped for zero values where it makes no difference
// (and for octal, where the zero digit itself satisfies it).
func Format(out fmtsink.Sink, cur fmtsink.Cursor, value uint64, negative bool, base Base, precision, width int, flags fmtspec.Flags) fmtsink.Cursor {
	var buf [BufSize]byte
	n := 0

	if value == 0 {
		if flags&fmtspec.FlagPrecision == 0 {
			buf[n] = '0'
			n++
			flags &^= fmtspec.FlagHash
		} else if base == Hex {
			flags &^= fmtspec.FlagHash
		}
	} else {
		letter := byte('a')
		if flags&fmtspec.FlagUpper != 0 {
			letter = 'A'
		}
		for value != 0 && n < BufSize {
			d := byte(value % uint64(base))
			if d < 10 {
				buf[n] = '0' + d
			} else {
				buf[n] = letter + d - 10
			}
			n++
			value /= uint64(base)
		}
	}

	return formatPadded(out, cur, buf[:], n, negative, base, precision, width, flags)
}

// formatPadded applies zero/precision padding and the sign and prefix
// characters to an already-reversed digit buffer, then emits it.
func formatPadded(out fmtsink.Sink, cur fmtsink.Cursor, buf []byte, n int, negative bool, base Base, precision, width int, flags fmtspec.Flags) fmtsink.Cursor {
	unpadded := n

	if flags&fmtspec.FlagLeft == 0 {
		if width > 0 && flags&fmtspec.FlagZeroPad != 0 &&
			(negative || flags&(fmtspec.FlagPlus|fmtspec.FlagSpace) != 0) {
			// Reserve one column for the sign character.
			width--
		}
		for flags&fmtspec.FlagZeroPad != 0 && n < width && n < BufSize {
			buf[n] = '0'
			n++
		}
	}

	for n < precision && n < BufSize {
		buf[n] = '0'
		n++
	}

	if base == Octal && n > unpadded {
		// A written zero already satisfies the alternate-form
		// leading-zero requirement.
		flags &^= fmtspec.FlagHash
	}

	if flags&(fmtspec.FlagHash|fmtspec.FlagPointer) != 0 {
		if flags&fmtspec.FlagPrecision == 0 && n > 0 && (n == precision || n == width) {
			// Take back padding digits so the prefix fits within the
			// requested width; hex needs room for both the '0' and
			// the base letter.
			if unpadded < n {
				n--
			}
			if n > 0 && base == Hex && unpadded < n {
				n--
			}
		}
		if base == Hex && flags&fmtspec.FlagUpper == 0 && n < BufSize {
			buf[n] = 'x'
			n++
		} else if base == Hex && flags&fmtspec.FlagUpper != 0 && n < BufSize {
			buf[n] = 'X'
			n++
		} else if base == Binary && n < BufSize {
			buf[n] = 'b'
			n++
		}
		if n < BufSize {
			buf[n] = '0'
			n++
		}
	}

	if n < BufSize {
		if negative {
			buf[n] = '-'
			n++
		} else if flags&fmtspec.FlagPlus != 0 {
			// The plus flag wins over the space flag.
			buf[n] = '+'
			n++
		} else if flags&fmtspec.FlagSpace != 0 {
			buf[n] = ' '
			n++
		}
	}

	return EmitReversed(out, cur, buf[:n], width, flags)
}
