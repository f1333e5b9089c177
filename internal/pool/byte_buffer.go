// Package pool provides a growable byte buffer used to accumulate
// decompression output. Unlike a process-wide sync.Pool, each ByteBuffer
// here is owned by exactly one resource (one *resource.Rsc or
// *resource.Nrsc scratch slot), matching the monokakido container's
// no-caching-across-dictionaries rule: nothing is shared between
// concurrently open dictionaries.
package pool

// DefaultSize is the initial capacity given to a freshly constructed
// ByteBuffer when the caller has no better estimate.
const DefaultSize = 1024 * 16 // 16KiB

// ByteBuffer is a growable byte slice wrapper tuned for the
// "decompress, doubling capacity until the engine reports done" loop that
// package inflate drives.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("pool: SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Grow grows the buffer so that it can hold at least requiredTotal bytes
// without reallocating, doubling (plus one, to escape a zero-length buffer)
// the current capacity when more room is needed — the same strategy the
// streaming inflate loop uses to escape a "needs more output" signal.
func (bb *ByteBuffer) Grow(requiredTotal int) {
	if cap(bb.B) >= requiredTotal {
		return
	}

	growTo := cap(bb.B)*2 + 1
	if growTo < requiredTotal {
		growTo = requiredTotal
	}

	newBuf := make([]byte, len(bb.B), growTo)
	copy(newBuf, bb.B)
	bb.B = newBuf
}
