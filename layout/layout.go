// Package layout provides the byte-layout primitives the rest of this module
// builds on: reading a little-endian u32 off the front of a slice, and
// reinterpreting a byte slice as a fixed-layout record (or array of records)
// without copying.
//
// Every on-disk record in the monokakido container is a packed little-endian
// structure composed solely of uint8/uint16/uint32 fields, which has an
// identical memory layout to the equivalent Go struct on a little-endian
// host. Record and Records exploit that to borrow directly from the buffer.
// This module targets the little-endian architectures (amd64, arm64, ...)
// that make up virtually every real Go deployment target; endian.IsNativeLittleEndian
// is consulted so a future big-endian port has one place to add a portable
// fallback instead of an incorrect silent cast.
package layout

import (
	"encoding/binary"
	"unsafe"

	"github.com/yomikata/monokakido/endian"
	"github.com/yomikata/monokakido/errs"
)

// ReadU32 consumes 4 bytes from the head of buf as a little-endian u32 and
// returns the value together with the remaining tail. It fails with
// errs.ErrBufferTooSmall if fewer than 4 bytes remain.
func ReadU32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, errs.ErrBufferTooSmall
	}

	return binary.LittleEndian.Uint32(buf), buf[4:], nil
}

// Record reinterprets the head of buf as *T without copying, provided buf is
// large enough and correctly aligned for T. It fails with errs.ErrTransmute
// otherwise. T must be a fixed-size record built solely from uint8/uint16/
// uint32 fields in on-disk (little-endian) order.
func Record[T any](buf []byte) (*T, []byte, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))

	if len(buf) < size {
		return nil, nil, errs.ErrTransmute
	}
	if !endian.IsNativeLittleEndian() || uintptr(unsafe.Pointer(&buf[0]))%uintptr(align) != 0 {
		return nil, nil, errs.ErrTransmute
	}

	rec := (*T)(unsafe.Pointer(&buf[0]))

	return rec, buf[size:], nil
}

// Records reinterprets the head of buf as []T of length n without copying,
// provided buf is large enough and correctly aligned for T. It fails with
// errs.ErrTransmute otherwise.
func Records[T any](buf []byte, n int) ([]T, []byte, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	need := size * n

	if len(buf) < need {
		return nil, nil, errs.ErrTransmute
	}
	if n == 0 {
		return nil, buf, nil
	}

	align := int(unsafe.Alignof(zero))
	if !endian.IsNativeLittleEndian() || uintptr(unsafe.Pointer(&buf[0]))%uintptr(align) != 0 {
		return nil, nil, errs.ErrTransmute
	}

	recs := unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)

	return recs, buf[need:], nil
}
