// Package keystore implements the headword index: four parallel total
// orderings of the same key set, each key carrying a page-reference run
// that addresses entries in the compressed text pages.
package keystore

import (
	"github.com/yomikata/monokakido/endian"
	"github.com/yomikata/monokakido/errs"
)

const (
	fileHeaderMagic  = 0x20000
	indexHeaderMagic = 0x04

	fileHeaderSize  = 32 // 8 u32le fields
	indexHeaderSize = 20 // 5 u32le fields
)

// fileHeader is the keystore file's leading 32 bytes.
type fileHeader struct {
	magic1      uint32
	zero1       uint32
	wordsOffset uint32
	idxOffset   uint32
	zero2       uint32
	zero3       uint32
	zero4       uint32
	zero5       uint32
}

func parseFileHeader(buf []byte) (fileHeader, error) {
	if len(buf) < fileHeaderSize {
		return fileHeader{}, errs.ErrKeyFileHeaderValidate
	}

	engine := endian.GetLittleEndianEngine()
	h := fileHeader{
		magic1:      engine.Uint32(buf[0:4]),
		zero1:       engine.Uint32(buf[4:8]),
		wordsOffset: engine.Uint32(buf[8:12]),
		idxOffset:   engine.Uint32(buf[12:16]),
		zero2:       engine.Uint32(buf[16:20]),
		zero3:       engine.Uint32(buf[20:24]),
		zero4:       engine.Uint32(buf[24:28]),
		zero5:       engine.Uint32(buf[28:32]),
	}

	if h.magic1 != fileHeaderMagic || h.zero1 != 0 || h.zero2 != 0 || h.zero3 != 0 || h.zero4 != 0 || h.zero5 != 0 {
		return fileHeader{}, errs.ErrKeyFileHeaderValidate
	}
	if h.wordsOffset >= h.idxOffset {
		return fileHeader{}, errs.ErrKeyFileHeaderValidate
	}

	return h, nil
}

// Ordering selects one of the keystore's four parallel total orderings of
// the same key set.
type Ordering int

const (
	// OrderingLength orders keys by length.
	OrderingLength Ordering = iota
	// OrderingPrefix orders keys lexicographically ascending; the only
	// ordering used for exact-match search.
	OrderingPrefix
	// OrderingSuffix orders keys by reversed byte sequence.
	OrderingSuffix
	// OrderingD is a fourth, undocumented total ordering the container
	// carries but never consults for lookup.
	OrderingD
)

// indexSetHeader is the 20-byte header preceding the four index arrays.
type indexSetHeader struct {
	magic        uint32
	offsetLength uint32
	offsetPrefix uint32
	offsetSuffix uint32
	offsetD      uint32
}

func parseIndexSetHeader(buf []byte, fileLen int) (indexSetHeader, error) {
	if len(buf) < indexHeaderSize {
		return indexSetHeader{}, errs.ErrKeyIndexHeaderValidate
	}

	engine := endian.GetLittleEndianEngine()
	h := indexSetHeader{
		magic:        engine.Uint32(buf[0:4]),
		offsetLength: engine.Uint32(buf[4:8]),
		offsetPrefix: engine.Uint32(buf[8:12]),
		offsetSuffix: engine.Uint32(buf[12:16]),
		offsetD:      engine.Uint32(buf[16:20]),
	}

	if h.magic != indexHeaderMagic {
		return indexSetHeader{}, errs.ErrKeyIndexHeaderValidate
	}

	offsets := [4]uint32{h.offsetLength, h.offsetPrefix, h.offsetSuffix, h.offsetD}
	prev := uint32(0)
	for _, off := range offsets {
		if off == 0 {
			continue
		}
		if off < prev {
			return indexSetHeader{}, errs.ErrKeyIndexHeaderValidate
		}
		if int(off) > fileLen {
			return indexSetHeader{}, errs.ErrKeyIndexHeaderValidate
		}
		prev = off
	}

	return h, nil
}

func (h indexSetHeader) offsetFor(o Ordering) uint32 {
	switch o {
	case OrderingLength:
		return h.offsetLength
	case OrderingPrefix:
		return h.offsetPrefix
	case OrderingSuffix:
		return h.offsetSuffix
	case OrderingD:
		return h.offsetD
	default:
		return 0
	}
}
