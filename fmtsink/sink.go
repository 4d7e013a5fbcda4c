// Package fmtsink defines the output sink contract of the formatting engine
// and its three built-in strategies: bounded-buffer write, discard, and
// callback dispatch.
//
// A sink receives one byte per call together with the logical output index
// and the maximum length of the current formatting call. Sinks write only
// when idx < max and never fail. After the last output byte the engine
// issues exactly one trailing call with a NUL terminator, clamped into the
// writable range; sinks that have no use for a terminator must ignore it.
package fmtsink

// Sink consumes one output byte per call.
type Sink interface {
	Put(c byte, idx, max int)
}

// Buffer writes into a caller-owned byte slice. Writes are bounded by both
// the engine's maximum length and the slice length.
type Buffer []byte

// Put implements Sink.
func (b Buffer) Put(c byte, idx, max int) {
	if idx >= 0 && idx < max && idx < len(b) {
		b[idx] = c
	}
}

// Discard counts without writing. Used for size-only formatting.
type Discard struct{}

// Put implements Sink.
func (Discard) Put(c byte, idx, max int) {}

// Func invokes the wrapped consumer once per non-terminator byte. Caller
// context travels in the closure, replacing the traditional (character,
// context) pair.
type Func func(c byte)

// Put implements Sink.
func (f Func) Put(c byte, idx, max int) {
	if c != 0 {
		f(c)
	}
}

// Cursor tracks the logical output position of one formatting call. Idx
// always advances, even past Max: the final Idx is the logical length the
// caller receives, matching the snprintf sizing convention regardless of
// truncation.
type Cursor struct {
	Idx int
	Max int
}

// Put emits one byte through out and advances the cursor.
func (cur Cursor) Put(out Sink, c byte) Cursor {
	out.Put(c, cur.Idx, cur.Max)
	cur.Idx++
	return cur
}

// Term issues the trailing NUL call at the current position, clamped to the
// last writable index. With a zero maximum length there is no writable
// index and no call is made.
func (cur Cursor) Term(out Sink) {
	idx := cur.Idx
	if idx >= cur.Max {
		idx = cur.Max - 1
	}
	if idx < 0 {
		return
	}
	out.Put(0, idx, cur.Max)
}
