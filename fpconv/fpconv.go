// Package fpconv renders IEEE 754 double-precision values in fixed and
// exponential decimal notation.
//
// The conversion works on the bit pattern directly: the binary exponent and
// mantissa are extracted with math.Float64bits, the base-10 exponent is
// estimated from them, and the value is decomposed into integral and
// fractional int64 magnitudes scaled by an exact power of ten. No library
// formatting or base-conversion routine is called and no heap memory is
// used; everything happens in a fixed-size working buffer.
//
// Rounding is round-half-to-even at the exact .5 tie, for fractional digits
// and for the integral part at precision zero alike.
package fpconv

import (
	"math"

	"github.com/lattice-substrate/nanofmt/fmtsink"
	"github.com/lattice-substrate/nanofmt/fmtspec"
	"github.com/lattice-substrate/nanofmt/intconv"
)

// BufSize is the conversion buffer capacity. It must hold one converted
// number including padded zeros.
const BufSize = 32

// MaxPrecision is the largest fractional precision the int64-scaled
// decomposition supports. Requests beyond it are satisfied with literal
// trailing zeros before conversion.
const MaxPrecision = 17

// Defaults for Config fields left at zero.
const (
	DefaultPrecision         = 6
	DefaultMaxIntegralDigits = 9
)

// pow10 holds the powers of ten that are exactly representable alongside an
// int64-scaled fractional magnitude.
var pow10 = [MaxPrecision + 1]float64{
	1e00, 1e01, 1e02, 1e03, 1e04, 1e05, 1e06, 1e07, 1e08,
	1e09, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17,
}

// Config carries the configuration-time capability switches of the floating
// point paths. The zero value selects the defaults.
type Config struct {
	// DefaultPrecision applies when the directive carries no precision.
	DefaultPrecision int

	// MaxIntegralDigits bounds how many integral digits a fixed-notation
	// conversion may produce before it switches to exponential form.
	// Standard printf would print every integral digit; with a fixed
	// working buffer that is not possible, so values beyond the bound
	// switch notation instead.
	MaxIntegralDigits int

	// Exponential enables the e/E/g/G forms and the fixed-notation
	// overflow switch.
	Exponential bool
}

func (c Config) defaultPrecision() int {
	if c.DefaultPrecision > 0 {
		return c.DefaultPrecision
	}
	return DefaultPrecision
}

func (c Config) maxIntegralDigits() int {
	if c.MaxIntegralDigits > 0 && c.MaxIntegralDigits <= MaxPrecision {
		return c.MaxIntegralDigits
	}
	return DefaultMaxIntegralDigits
}

// Components is the decimal decomposition of a double at a given fractional
// precision: the integral magnitude, the fractional magnitude scaled by
// 10^precision, and the sign. Computed fresh per conversion and consumed
// immediately.
type Components struct {
	Integral   int64
	Fractional int64
	Negative   bool
}

// exp2 extracts the unbiased binary exponent from a double's bit pattern.
// The field maps to -1023..1024; the reserved endpoint values are not
// distinguished here.
func exp2(bits uint64) int {
	return int((bits>>52)&0x7FF) - 1023
}

// Decompose splits a finite double into integral and fractional magnitudes
// at the given precision (0..MaxPrecision) with round-half-to-even tie
// breaking. Negative inputs decompose on their absolute value with the sign
// recorded separately.
func Decompose(v float64, precision int) Components {
	var c Components
	c.Negative = math.Signbit(v)
	mag := v
	if c.Negative {
		mag = -v
	}
	c.Integral = int64(mag)
	remainder := (mag - float64(c.Integral)) * pow10[precision]
	c.Fractional = int64(remainder)
	remainder -= float64(c.Fractional)

	if remainder > 0.5 {
		c.Fractional++
		// Rollover, e.g. 0.99 at precision 1 is 1.0.
		if float64(c.Fractional) >= pow10[precision] {
			c.Fractional = 0
			c.Integral++
		}
	} else if remainder == 0.5 {
		if c.Fractional == 0 || c.Fractional&1 != 0 {
			// Halfway: round up if odd, or if the last digit is 0.
			c.Fractional++
		}
	}

	if precision == 0 {
		remainder = mag - float64(c.Integral)
		if remainder >= 0.5 && c.Integral&1 != 0 {
			// Exactly .5 with an odd integral part rounds up:
			// 1.5 -> 2, but 2.5 -> 2.
			c.Integral++
		}
	}
	return c
}

// ScalingFactor represents a normalization toward the unit mantissa range:
// multiply by Raw when Multiply is set, divide otherwise.
type ScalingFactor struct {
	Raw      float64
	Multiply bool
}

func applyScaling(v float64, sf ScalingFactor) float64 {
	if sf.Multiply {
		return v * sf.Raw
	}
	return v / sf.Raw
}

func unapplyScaling(v float64, sf ScalingFactor) float64 {
	if sf.Multiply {
		return v / sf.Raw
	}
	return v * sf.Raw
}

// updateNormalization folds an extra multiplicative factor into sf. When
// both sides divide, the factor with the larger binary exponent magnitude
// divides the other so the combined factor keeps its relative error small.
func updateNormalization(sf ScalingFactor, extra float64) ScalingFactor {
	if sf.Multiply {
		return ScalingFactor{Raw: sf.Raw * extra, Multiply: true}
	}
	fe := exp2(math.Float64bits(sf.Raw))
	xe := exp2(math.Float64bits(extra))
	if iabs(fe) > iabs(xe) {
		return ScalingFactor{Raw: sf.Raw / extra, Multiply: false}
	}
	return ScalingFactor{Raw: extra / sf.Raw, Multiply: true}
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// decadeAtLeast reports whether mag >= 10^e for an exponent within the
// power table range, using exact table values rather than the approximate
// reconstructed scale.
func decadeAtLeast(mag float64, e int) bool {
	if e >= 0 {
		return mag >= pow10[e]
	}
	return mag*pow10[-e] >= 1
}

// normalizedComponents decomposes a non-normalized value through a scaling
// factor, used by the exponential path where the mantissa is brought into
// [1,10) before digit extraction. Banker's rounding applies to the scaled
// remainder, and a fractional rollover carries into the integral part.
func normalizedComponents(negative bool, precision int, v float64, sf ScalingFactor) Components {
	var c Components
	c.Negative = negative
	c.Integral = int64(applyScaling(v, sf))
	remainder := v - unapplyScaling(float64(c.Integral), sf)
	precPow := pow10[precision]
	scaled := applyScaling(remainder, updateNormalization(sf, precPow))

	if precision == 0 {
		if scaled >= 0.5 {
			c.Integral++
			if scaled == 0.5 {
				c.Integral &^= 1
			}
		}
	} else {
		c.Fractional = int64(scaled)
		scaled -= float64(c.Fractional)
		if scaled >= 0.5 {
			c.Fractional++
			if scaled == 0.5 {
				c.Fractional &^= 1
			}
		}
		if float64(c.Fractional) >= precPow {
			// Rollover: (0, 100) at precision 2 is really (1, 0).
			c.Fractional = 0
			c.Integral++
		}
	}
	return c
}

// Format renders value in fixed or exponential notation. Non-finite values
// render as nan/inf with width and flags applied; fixed-notation requests
// whose integral part exceeds the configured digit bound switch to
// exponential form when enabled, and are dropped otherwise.
//
// precision is the raw directive precision; it applies only when flags
// carries FlagPrecision, otherwise the configured default is used.
func Format(out fmtsink.Sink, cur fmtsink.Cursor, value float64, precision, width int, flags fmtspec.Flags, preferExp bool, cfg Config) fmtsink.Cursor {
	var buf [BufSize]byte
	n := 0

	if math.IsNaN(value) {
		lit := [3]byte{'n', 'a', 'n'}
		return intconv.EmitReversed(out, cur, lit[:], width, flags)
	}
	if math.IsInf(value, -1) {
		lit := [4]byte{'f', 'n', 'i', '-'}
		return intconv.EmitReversed(out, cur, lit[:], width, flags)
	}
	if math.IsInf(value, 1) {
		if flags&fmtspec.FlagPlus != 0 {
			lit := [4]byte{'f', 'n', 'i', '+'}
			return intconv.EmitReversed(out, cur, lit[:], width, flags)
		}
		lit := [3]byte{'f', 'n', 'i'}
		return intconv.EmitReversed(out, cur, lit[:], width, flags)
	}

	threshold := pow10[cfg.maxIntegralDigits()]
	if !preferExp && (value > threshold || value < -threshold) {
		if !cfg.Exponential {
			// Every digit of the integral part would be required and
			// the working buffer cannot hold them. Emit nothing; the
			// logical length stays consistent.
			return cur
		}
		return formatExponential(out, cur, value, precision, width, flags, &buf, n)
	}

	if flags&fmtspec.FlagPrecision == 0 {
		precision = cfg.defaultPrecision()
	}

	// Meet an out-of-range precision with literal trailing zeros so the
	// int64 fractional magnitude cannot overflow. Once the working buffer
	// is full the remaining requested digits are dropped.
	for n < BufSize && precision > MaxPrecision {
		buf[n] = '0'
		n++
		precision--
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}

	if preferExp {
		return formatExponential(out, cur, value, precision, width, flags, &buf, n)
	}
	return sprintBrokenUpDecimal(Decompose(value, precision), out, cur, precision, width, flags, &buf, n)
}

// formatExponential renders value as mantissa 'e' sign exponent, or falls
// back to plain fixed notation in adaptive mode when the exponent is small.
func formatExponential(out fmtsink.Sink, cur fmtsink.Cursor, value float64, precision, width int, flags fmtspec.Flags, buf *[BufSize]byte, n int) fmtsink.Cursor {
	if precision > MaxPrecision {
		precision = MaxPrecision
	}
	negative := math.Signbit(value)
	mag := value
	if negative {
		mag = -value
	}

	var exp10 int
	var inTable bool
	var norm ScalingFactor

	if mag == 0.0 {
		// Zero needs no normalization. Subnormals take the general
		// path below; their exponent estimate starts degenerate and
		// leans entirely on the correction step, which is a known
		// accuracy gap of this estimation scheme.
		exp10 = 0
	} else {
		b := math.Float64bits(mag)
		e2 := exp2(b)
		// Drop the exponent field so the mantissa lands in [1,2).
		m := math.Float64frombits(b&((uint64(1)<<52)-1) | (uint64(1023) << 52))
		// Approximate log10 from the integer log2 and an expansion of
		// ln around 1.5.
		exp10 = int(0.1760912590558 + float64(e2)*0.301029995663981 + (m-1.5)*0.289529654602168)
		// Rebuild 10^exp10 without overflowing the binary exponent:
		// split into a power of two and exp(z) by continued fraction.
		e2 = int(float64(exp10)*3.321928094887362 + 0.5)
		z := float64(exp10)*2.302585092994046 - float64(e2)*0.6931471805599453
		z2 := z * z
		scale := math.Float64frombits(uint64(e2+1023) << 52)
		scale *= 1 + 2*z/(2-z+(z2/(6+(z2/(10+z2/14)))))
		// Correct the estimate by at most one decade.
		if mag < scale {
			exp10--
			scale /= 10
		}
		inTable = iabs(exp10) <= MaxPrecision
		if inTable {
			// The reconstructed scale is only accurate to a few ulps,
			// which misplaces values sitting exactly on a decade
			// boundary (10^6 rebuilds slightly above 1e6). Inside the
			// table range redo the correction against the exact powers,
			// with the same scaling arithmetic digit extraction uses.
			for exp10 < MaxPrecision && decadeAtLeast(mag, exp10+1) {
				exp10++
			}
			for exp10 > -MaxPrecision && !decadeAtLeast(mag, exp10) {
				exp10--
			}
			norm.Raw = pow10[iabs(exp10)]
		} else {
			norm.Raw = scale
		}
	}

	fallBack := false
	if flags&fmtspec.FlagAdaptExp != 0 {
		// Adaptive precision counts significant digits, minimum one.
		sig := precision
		if sig == 0 {
			sig = 1
		}
		fallBack = exp10 >= -4 && exp10 < sig
		p := sig - 1
		if fallBack {
			// One significant digit lands before the point for each
			// step of the exponent.
			p = sig - 1 - exp10
		}
		if p < 0 {
			p = 0
		}
		if p > MaxPrecision {
			// The fallback form can want up to four extra fractional
			// digits past the significant count; keep the table index
			// in range.
			p = MaxPrecision
		}
		precision = p
		flags |= fmtspec.FlagPrecision
	}

	norm.Multiply = exp10 < 0 && inTable
	var comps Components
	if fallBack || exp10 == 0 {
		comps = Decompose(value, precision)
	} else {
		comps = normalizedComponents(negative, precision, mag, norm)
	}

	// Rounding can roll the mantissa over, e.g. 9.99 to 10.0, which
	// shifts the exponent.
	if fallBack {
		if flags&fmtspec.FlagAdaptExp != 0 && exp10 >= -1 &&
			exp10+1 <= MaxPrecision && float64(comps.Integral) == pow10[exp10+1] {
			exp10++
			if precision > 0 {
				precision--
			}
		}
	} else if comps.Integral >= 10 {
		exp10++
		comps.Integral = 1
		comps.Fractional = 0
	}

	// The exponent suffix is "e+dd" or "e+ddd"; reserve its columns
	// unless we fell back to plain fixed notation.
	expWidth := 0
	if !fallBack {
		if exp10 > -100 && exp10 < 100 {
			expWidth = 4
		} else {
			expWidth = 5
		}
	}

	// Left-justified output pushes the width constraint onto the suffix
	// side, so the fixed-notation part takes as many columns as it
	// needs; right-justified output budgets the remaining width for it.
	decWidth := 0
	if flags&fmtspec.FlagLeft != 0 && expWidth > 0 {
		decWidth = 0
	} else if width > expWidth {
		decWidth = width - expWidth
	}

	start := cur.Idx
	cur = sprintBrokenUpDecimal(comps, out, cur, precision, decWidth, flags, buf, n)

	if !fallBack {
		if flags&fmtspec.FlagUpper != 0 {
			cur = cur.Put(out, 'E')
		} else {
			cur = cur.Put(out, 'e')
		}
		eMag := uint64(exp10)
		if exp10 < 0 {
			eMag = uint64(-exp10)
		}
		cur = intconv.Format(out, cur, eMag, exp10 < 0, intconv.Decimal,
			0, expWidth-1, fmtspec.FlagZeroPad|fmtspec.FlagPlus)
		if flags&fmtspec.FlagLeft != 0 {
			for cur.Idx-start < width {
				cur = cur.Put(out, ' ')
			}
		}
	}
	return cur
}

// sprintBrokenUpDecimal writes a decomposed value into the reversed buffer
// (fractional digits first, then the point, then integral digits, then
// zero padding and sign) and emits it. In adaptive mode without the
// alternate form, trailing zero fractional digits are dropped, and the
// decimal point goes with them when nothing remains.
func sprintBrokenUpDecimal(c Components, out fmtsink.Sink, cur fmtsink.Cursor, precision, width int, flags fmtspec.Flags, buf *[BufSize]byte, n int) fmtsink.Cursor {
	if precision > 0 {
		count := precision

		if flags&fmtspec.FlagAdaptExp != 0 && flags&fmtspec.FlagHash == 0 && c.Fractional > 0 {
			for c.Fractional%10 == 0 {
				count--
				c.Fractional /= 10
			}
		}

		if c.Fractional > 0 || flags&fmtspec.FlagAdaptExp == 0 || flags&fmtspec.FlagHash != 0 {
			for n < BufSize {
				count--
				buf[n] = byte('0' + c.Fractional%10)
				n++
				c.Fractional /= 10
				if c.Fractional == 0 {
					break
				}
			}
			for n < BufSize && count > 0 {
				buf[n] = '0'
				n++
				count--
			}
			if n < BufSize {
				buf[n] = '.'
				n++
			}
		}
	} else if flags&fmtspec.FlagHash != 0 && n < BufSize {
		buf[n] = '.'
		n++
	}

	// The integral digits follow the fractional ones; the buffer is
	// emitted in reverse.
	for n < BufSize {
		buf[n] = byte('0' + c.Integral%10)
		n++
		c.Integral /= 10
		if c.Integral == 0 {
			break
		}
	}

	if flags&fmtspec.FlagLeft == 0 && flags&fmtspec.FlagZeroPad != 0 {
		if width > 0 && (c.Negative || flags&(fmtspec.FlagPlus|fmtspec.FlagSpace) != 0) {
			width--
		}
		for n < width && n < BufSize {
			buf[n] = '0'
			n++
		}
	}

	if n < BufSize {
		if c.Negative {
			buf[n] = '-'
			n++
		} else if flags&fmtspec.FlagPlus != 0 {
			buf[n] = '+'
			n++
		} else if flags&fmtspec.FlagSpace != 0 {
			buf[n] = ' '
			n++
		}
	}

	return intconv.EmitReversed(out, cur, buf[:n], width, flags)
}
