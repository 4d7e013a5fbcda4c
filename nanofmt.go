// Package nanofmt is a self-contained printf-style formatting engine with a
// fixed memory footprint. Every conversion runs in small stack buffers, no
// call allocates, and output flows byte by byte through a caller-supplied
// sink, so the engine is safe to use from signal-handler-like contexts and
// concurrently from any number of goroutines.
//
// The directive language is the classic
// %[flags][width][.precision][length]specifier family: d i u x X o b, f F,
// e E g G, c s p, and %%. Floating point conversion is done directly on the
// IEEE 754 bit representation rather than through the standard library.
//
// Four entry points cover the usual output shapes: FormatBuffer writes into
// a byte slice with snprintf truncation semantics, FormatLength measures
// without writing, FormatFunc streams through a callback, and FormatSink
// takes any fmtsink.Sink together with engine Options. Each has an Args
// variant accepting a prebuilt argument slice.
package nanofmt

import (
	"math/bits"

	"github.com/lattice-substrate/nanofmt/fmtsink"
	"github.com/lattice-substrate/nanofmt/fmtspec"
	"github.com/lattice-substrate/nanofmt/fpconv"
	"github.com/lattice-substrate/nanofmt/intconv"
)

const maxInt = int(^uint(0) >> 1)

// Options tunes engine behavior per call. A nil *Options selects the
// defaults: precision 6, nine integral digits before fixed notation
// overflows, all conversion families enabled.
type Options struct {
	// DefaultFloatPrecision applies to f/F/e/E/g/G directives without an
	// explicit precision. Zero means 6.
	DefaultFloatPrecision int

	// MaxIntegralDigits bounds the integral digits a fixed-notation float
	// conversion may produce before switching to exponential form.
	// Zero means 9.
	MaxIntegralDigits int

	// DisableFloat turns off f and F. Disabled specifiers are emitted
	// literally.
	DisableFloat bool

	// DisableExponential turns off e, E, g, and G, and the fixed-notation
	// overflow switch.
	DisableExponential bool
}

func (o *Options) floatEnabled() bool {
	return o == nil || !o.DisableFloat
}

func (o *Options) expEnabled() bool {
	return o == nil || !o.DisableExponential
}

func (o *Options) fpConfig() fpconv.Config {
	if o == nil {
		return fpconv.Config{Exponential: true}
	}
	return fpconv.Config{
		DefaultPrecision:  o.DefaultFloatPrecision,
		MaxIntegralDigits: o.MaxIntegralDigits,
		Exponential:       !o.DisableExponential,
	}
}

// FormatBuffer formats into buf with snprintf semantics: output is
// truncated to len(buf)-1 bytes plus a NUL terminator, and the returned
// length is the untruncated logical length. A would-be result of
// len(buf)-1 or more therefore signals truncation.
func FormatBuffer(buf []byte, format string, args ...any) int {
	return FormatBufferArgs(buf, format, args)
}

// FormatBufferArgs is FormatBuffer with a prebuilt argument slice.
func FormatBufferArgs(buf []byte, format string, args []any) int {
	return vformat(fmtsink.Buffer(buf), len(buf), nil, format, args)
}

// FormatLength returns the logical length format would produce, writing
// nothing.
func FormatLength(format string, args ...any) int {
	return FormatLengthArgs(format, args)
}

// FormatLengthArgs is FormatLength with a prebuilt argument slice.
func FormatLengthArgs(format string, args []any) int {
	return vformat(fmtsink.Discard{}, maxInt, nil, format, args)
}

// FormatFunc streams each output byte through fn and returns the logical
// length. The terminator byte is not forwarded.
func FormatFunc(fn func(c byte), format string, args ...any) int {
	return FormatFuncArgs(fn, format, args)
}

// FormatFuncArgs is FormatFunc with a prebuilt argument slice.
func FormatFuncArgs(fn func(c byte), format string, args []any) int {
	return vformat(fmtsink.Func(fn), maxInt, nil, format, args)
}

// FormatSink formats through an arbitrary sink with at most max output
// bytes counted as writable, applying opts. It is the general form the
// other entry points wrap.
func FormatSink(out fmtsink.Sink, max int, opts *Options, format string, args ...any) int {
	return FormatSinkArgs(out, max, opts, format, args)
}

// FormatSinkArgs is FormatSink with a prebuilt argument slice.
func FormatSinkArgs(out fmtsink.Sink, max int, opts *Options, format string, args []any) int {
	return vformat(out, max, opts, format, args)
}

// vformat is the driver: it copies literal bytes, parses each directive,
// resolves argument-supplied width and precision, and dispatches to the
// integer, float, and string emitters. It returns the logical length.
func vformat(out fmtsink.Sink, max int, opts *Options, format string, args []any) int {
	cur := fmtsink.Cursor{Max: max}
	al := argList{args: args}
	pos := 0

	for pos < len(format) {
		if format[pos] != '%' {
			cur = cur.Put(out, format[pos])
			pos++
			continue
		}

		var sp fmtspec.Spec
		sp, pos = fmtspec.ParseDirective(format, pos+1)

		if sp.WidthFromArg {
			w := al.nextInt()
			if w < 0 {
				// A negative argument width means left-justify.
				sp.Flags |= fmtspec.FlagLeft
				if w == -maxInt-1 {
					w = maxInt
				} else {
					w = -w
				}
			}
			if w > fmtspec.MaxField {
				w = fmtspec.MaxField
			}
			sp.Width = w
		}
		if sp.PrecFromArg {
			p := al.nextInt()
			if p < 0 {
				// A negative argument precision is ignored outright.
				sp.Flags &^= fmtspec.FlagPrecision
			} else {
				if p > fmtspec.MaxField {
					p = fmtspec.MaxField
				}
				sp.Precision = p
			}
		}

		cur = emitDirective(out, cur, &al, opts, sp)
	}

	cur.Term(out)
	return cur.Idx
}

func emitDirective(out fmtsink.Sink, cur fmtsink.Cursor, al *argList, opts *Options, sp fmtspec.Spec) fmtsink.Cursor {
	switch sp.Verb {
	case 'd', 'i', 'u', 'x', 'X', 'o', 'b':
		return emitInteger(out, cur, al, sp)

	case 'f', 'F':
		if !opts.floatEnabled() {
			return cur.Put(out, sp.Verb)
		}
		return fpconv.Format(out, cur, al.nextFloat(), sp.Precision,
			sp.Width, sp.Flags, false, opts.fpConfig())

	case 'e', 'E', 'g', 'G':
		if !opts.expEnabled() {
			return cur.Put(out, sp.Verb)
		}
		flags := sp.Flags
		if sp.Verb == 'g' || sp.Verb == 'G' {
			flags |= fmtspec.FlagAdaptExp
		}
		if sp.Verb == 'E' || sp.Verb == 'G' {
			flags |= fmtspec.FlagUpper
		}
		return fpconv.Format(out, cur, al.nextFloat(), sp.Precision,
			sp.Width, flags, true, opts.fpConfig())

	case 'c':
		c := byte(al.nextUnsigned(sp.Flags))
		if sp.Flags&fmtspec.FlagLeft == 0 {
			for l := 1; l < sp.Width; l++ {
				cur = cur.Put(out, ' ')
			}
		}
		cur = cur.Put(out, c)
		if sp.Flags&fmtspec.FlagLeft != 0 {
			for l := 1; l < sp.Width; l++ {
				cur = cur.Put(out, ' ')
			}
		}
		return cur

	case 's':
		s, ok := al.nextString()
		if !ok {
			null := [6]byte{')', 'l', 'l', 'u', 'n', '('}
			return intconv.EmitReversed(out, cur, null[:], sp.Width, sp.Flags)
		}
		return emitString(out, cur, s, sp)

	case 'p':
		addr, ok := al.nextPointer()
		if !ok || addr == 0 {
			nilLit := [5]byte{')', 'l', 'i', 'n', '('}
			return intconv.EmitReversed(out, cur, nilLit[:], sp.Width, sp.Flags)
		}
		sp.Width = bits.UintSize/4 + 2
		sp.Flags |= fmtspec.FlagZeroPad | fmtspec.FlagPointer
		return intconv.Format(out, cur, addr, false, intconv.Hex,
			sp.Precision, sp.Width, sp.Flags)

	case '%':
		return cur.Put(out, '%')

	case 0:
		// Format string ended mid-directive.
		return cur
	}

	// Unrecognized specifiers pass through literally.
	return cur.Put(out, sp.Verb)
}

func emitInteger(out fmtsink.Sink, cur fmtsink.Cursor, al *argList, sp fmtspec.Spec) fmtsink.Cursor {
	var base intconv.Base
	flags := sp.Flags

	switch sp.Verb {
	case 'x', 'X':
		base = intconv.Hex
		if sp.Verb == 'X' {
			flags |= fmtspec.FlagUpper
		}
	case 'o':
		base = intconv.Octal
	case 'b':
		base = intconv.Binary
	default:
		base = intconv.Decimal
		flags &^= fmtspec.FlagHash
	}
	if sp.Verb != 'd' && sp.Verb != 'i' {
		// Sign flags apply to signed conversions only.
		flags &^= fmtspec.FlagPlus | fmtspec.FlagSpace
	}
	if flags&fmtspec.FlagPrecision != 0 {
		// An explicit precision supersedes zero padding.
		flags &^= fmtspec.FlagZeroPad
	}

	if sp.Verb == 'd' || sp.Verb == 'i' {
		v := al.nextSigned(sp.Flags)
		mag := uint64(v)
		if v < 0 {
			mag = uint64(-v)
		}
		return intconv.Format(out, cur, mag, v < 0, base,
			sp.Precision, sp.Width, flags)
	}
	return intconv.Format(out, cur, al.nextUnsigned(sp.Flags), false, base,
		sp.Precision, sp.Width, flags)
}

func emitString(out fmtsink.Sink, cur fmtsink.Cursor, s string, sp fmtspec.Spec) fmtsink.Cursor {
	l := len(s)
	if sp.Flags&fmtspec.FlagPrecision != 0 && l > sp.Precision {
		l = sp.Precision
	}
	if sp.Flags&fmtspec.FlagLeft == 0 {
		for i := l; i < sp.Width; i++ {
			cur = cur.Put(out, ' ')
		}
	}
	for i := 0; i < l; i++ {
		cur = cur.Put(out, s[i])
	}
	if sp.Flags&fmtspec.FlagLeft != 0 {
		for i := l; i < sp.Width; i++ {
			cur = cur.Put(out, ' ')
		}
	}
	return cur
}
