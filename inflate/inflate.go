// Package inflate wraps klauspost/compress's zlib reader with the growable
// output buffer and exact-input-consumption check that the monokakido
// container format requires of every compressed block, in both the RSC and
// NRSC resource families.
//
// The container never declares the decompressed size up front, so the only
// way to know a block has been fully read is to keep growing the output
// buffer until the reader reports io.EOF. After that, State verifies the
// reader consumed every byte of the input: a short read means the declared
// compressed length lied, which this package reports as
// errs.ErrIncorrectStreamLength rather than silently returning a truncated
// page.
package inflate

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/internal/pool"
)

// State is reusable decompression scratch space: one State is owned by one
// resource.Rsc or resource.Nrsc instance and is re-initialized on every
// call, reusing its output buffer rather than allocating a fresh one per
// page. A new zlib reader is still created on every call.
type State struct {
	out *pool.ByteBuffer
	src countingReader
}

// NewState returns a State with a freshly allocated output buffer.
func NewState() *State {
	return &State{out: pool.NewByteBuffer(pool.DefaultSize)}
}

// Inflate decompresses a complete zlib-framed block (header included) from
// in, growing the output buffer as needed, and returns the slice of
// out-buffer bytes actually written. The returned slice is only valid until
// the next call to Inflate on the same State.
//
// It fails with errs.ErrZlib if the stream is malformed, and with
// errs.ErrIncorrectStreamLength if the reader does not consume exactly
// len(in) bytes — a short read signals that a declared block length in the
// container disagrees with the actual compressed stream.
func (s *State) Inflate(in []byte) ([]byte, error) {
	s.src = countingReader{r: bytes.NewReader(in)}

	zr, err := zlib.NewReader(&s.src)
	if err != nil {
		return nil, errs.ErrZlib
	}
	defer zr.Close()

	s.out.Reset()

	n, err := readAllGrowing(zr, s.out)
	if err != nil {
		return nil, errs.ErrZlib
	}

	if s.src.n != len(in) {
		return nil, errs.ErrIncorrectStreamLength
	}

	return s.out.Bytes()[:n], nil
}

// readAllGrowing reads r to completion into buf, doubling buf's capacity
// every time the current capacity is exhausted, and returns the total
// number of bytes written.
func readAllGrowing(r io.Reader, buf *pool.ByteBuffer) (int, error) {
	total := 0
	for {
		if total == buf.Cap() {
			buf.Grow(buf.Cap()*2 + 1)
		}
		buf.SetLength(buf.Cap())

		n, err := r.Read(buf.Bytes()[total:])
		total += n

		if err != nil {
			buf.SetLength(total)
			if errors.Is(err, io.EOF) {
				return total, nil
			}

			return total, err
		}
	}
}

// countingReader tracks how many bytes have been pulled from the underlying
// reader so Inflate can confirm the zlib stream consumed exactly the
// declared compressed length. It implements io.ByteReader as well as
// io.Reader: without ReadByte the zlib reader would interpose a buffered
// reader that drains input ahead of the stream, making the count useless.
type countingReader struct {
	r *bytes.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n

	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}

	return b, err
}
