package keystore

import (
	"encoding/binary"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/format"
)

// PageIterator yields the page/item addresses stored in one key's
// page-reference run. It validates the entire run up front (every tag is
// known and the buffer is not truncated) so that emission afterwards is
// total and never needs to reject a previously-accepted run.
type PageIterator struct {
	buf   []byte // the run's tagged-tuple bytes, already trimmed to exactly what validation measured
	pos   int
	total int
	n     int // number emitted so far
}

// NewPageIterator reads a page-reference run beginning at the head of buf:
// a u16le count followed by that many tagged tuples. It validates the
// whole run before returning, failing with errs.ErrInvalidIndex if a tag is
// unrecognized or the buffer is truncated.
func NewPageIterator(buf []byte) (*PageIterator, error) {
	if len(buf) < 2 {
		return nil, errs.ErrInvalidIndex
	}

	count := int(binary.LittleEndian.Uint16(buf[0:2]))
	body := buf[2:]

	pos := 0
	for i := 0; i < count; i++ {
		n, err := tagLen(body, pos)
		if err != nil {
			return nil, err
		}
		pos += n
	}

	return &PageIterator{buf: body[:pos], total: count}, nil
}

// tagLen returns the number of bytes the tuple at body[pos] occupies
// (including its tag byte), or errs.ErrInvalidIndex if the tag is unknown
// or the buffer is truncated.
func tagLen(body []byte, pos int) (int, error) {
	if pos >= len(body) {
		return 0, errs.ErrInvalidIndex
	}

	switch body[pos] {
	case 1:
		if pos+2 > len(body) {
			return 0, errs.ErrInvalidIndex
		}
		return 2, nil
	case 2, 17:
		if pos+3 > len(body) {
			return 0, errs.ErrInvalidIndex
		}
		return 3, nil
	case 4, 18:
		if pos+4 > len(body) {
			return 0, errs.ErrInvalidIndex
		}
		return 4, nil
	default:
		return 0, errs.ErrInvalidIndex
	}
}

// Len returns the total number of items this run will yield.
func (it *PageIterator) Len() int {
	return it.total
}

// Next yields the next (page, item) pair, or ok=false once the run is
// exhausted. It cannot fail: validation at construction time already
// proved every tag is well-formed.
func (it *PageIterator) Next() (format.PageItemID, bool) {
	if it.n >= it.total {
		return format.PageItemID{}, false
	}

	b := it.buf[it.pos:]
	var id format.PageItemID

	switch b[0] {
	case 1:
		id = format.PageItemID{Page: uint32(b[1]), Item: 0}
		it.pos += 2
	case 2:
		id = format.PageItemID{Page: uint32(b[1])*256 + uint32(b[2]), Item: 0}
		it.pos += 3
	case 4:
		id = format.PageItemID{Page: uint32(b[1])*65536 + uint32(b[2])*256 + uint32(b[3]), Item: 0}
		it.pos += 4
	case 17:
		id = format.PageItemID{Page: uint32(b[1]), Item: b[2]}
		it.pos += 3
	case 18:
		id = format.PageItemID{Page: uint32(b[1])*256 + uint32(b[2]), Item: b[3]}
		it.pos += 4
	}

	it.n++

	return id, true
}
