package nanofmt

import (
	"unsafe"

	"github.com/lattice-substrate/nanofmt/fmtspec"
)

// argList walks the variadic argument slice in directive order. Exhausted or
// mistyped positions degrade to zero values; the engine never fails a
// formatting call over its arguments.
type argList struct {
	args []any
	next int
}

func (a *argList) fetch() (any, bool) {
	if a.next >= len(a.args) {
		return nil, false
	}
	v := a.args[a.next]
	a.next++
	return v, true
}

// nextInt fetches a plain int, for '*' width and precision.
func (a *argList) nextInt() int {
	v, ok := a.fetch()
	if !ok {
		return 0
	}
	n, _ := toInt64(v)
	return int(n)
}

// nextSigned fetches a signed integer and narrows it per the directive's
// length class, reproducing the promote-then-truncate behavior of variadic
// integer passing.
func (a *argList) nextSigned(flags fmtspec.Flags) int64 {
	v, ok := a.fetch()
	if !ok {
		return 0
	}
	n, _ := toInt64(v)
	switch {
	case flags&fmtspec.FlagChar != 0:
		return int64(int8(n))
	case flags&fmtspec.FlagShort != 0:
		return int64(int16(n))
	}
	return n
}

// nextUnsigned is nextSigned for the unsigned conversions.
func (a *argList) nextUnsigned(flags fmtspec.Flags) uint64 {
	v, ok := a.fetch()
	if !ok {
		return 0
	}
	n, _ := toUint64(v)
	switch {
	case flags&fmtspec.FlagChar != 0:
		return uint64(uint8(n))
	case flags&fmtspec.FlagShort != 0:
		return uint64(uint16(n))
	}
	return n
}

func (a *argList) nextFloat() float64 {
	v, ok := a.fetch()
	if !ok {
		return 0
	}
	switch f := v.(type) {
	case float64:
		return f
	case float32:
		return float64(f)
	}
	if n, ok := toInt64(v); ok {
		return float64(n)
	}
	return 0
}

// nextString fetches a string argument. Anything else, nil included,
// stands in for a null pointer and is reported as absent.
func (a *argList) nextString() (string, bool) {
	v, ok := a.fetch()
	if !ok {
		return "", false
	}
	s, isString := v.(string)
	return s, isString
}

// nextPointer fetches a pointer-like argument as a raw address. The second
// result distinguishes a nil address from an argument that carries no
// address at all.
func (a *argList) nextPointer() (uint64, bool) {
	v, ok := a.fetch()
	if !ok {
		return 0, false
	}
	switch p := v.(type) {
	case nil:
		return 0, true
	case uintptr:
		return uint64(p), true
	case unsafe.Pointer:
		return uint64(uintptr(p)), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uintptr:
		return int64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toUint64(v any) (uint64, bool) {
	n, ok := toInt64(v)
	return uint64(n), ok
}
