package keystore

import (
	"bytes"
	"encoding/binary"

	"github.com/yomikata/monokakido/errs"
)

// indexArray is one of the keystore's four parallel key orderings: a
// length-prefixed sequence of word-offsets into the words region.
type indexArray struct {
	entries []uint32 // word offsets into the words region, N of them
}

// loadIndexArray reads a length-prefixed u32le array: the first word is N,
// followed by exactly N entries. arrayLenWords is the number of u32 words
// available for this array (bounded by the next index's offset, or file
// end) and must equal N+1.
func loadIndexArray(buf []byte, arrayLenWords int) (indexArray, error) {
	if arrayLenWords < 1 || len(buf) < arrayLenWords*4 {
		return indexArray{}, errs.ErrKeyIndexHeaderValidate
	}

	n := binary.LittleEndian.Uint32(buf[0:4])
	if int(n)+1 != arrayLenWords {
		return indexArray{}, errs.ErrKeyIndexHeaderValidate
	}

	entries := make([]uint32, n)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint32(buf[4+4*i : 8+4*i])
	}

	return indexArray{entries: entries}, nil
}

// words is the key-bearing byte region: at each word offset lives a u32le
// pages_offset, a one-byte key length, the UTF-8 key bytes, then a null
// terminator.
type words []byte

// wordEntry decodes the word stored at offset off.
type wordEntry struct {
	pagesOffset uint32
	key         []byte // excludes the terminating null
}

// from returns the tail of the words region starting at off, bounds
// checked against the region's length.
func (w words) from(off uint32) ([]byte, error) {
	if uint64(off) > uint64(len(w)) {
		return nil, errs.ErrInvalidIndex
	}

	return w[off:], nil
}

func (w words) at(off uint32) (wordEntry, error) {
	if uint64(off)+5 > uint64(len(w)) {
		return wordEntry{}, errs.ErrInvalidIndex
	}

	pagesOffset := binary.LittleEndian.Uint32(w[off : off+4])
	keyLen := int(w[off+4])
	start := int(off) + 5

	if start+keyLen+1 > len(w) {
		return wordEntry{}, errs.ErrInvalidIndex
	}
	if w[start+keyLen] != 0 {
		return wordEntry{}, errs.ErrInvalidIndex
	}

	return wordEntry{pagesOffset: pagesOffset, key: w[start : start+keyLen]}, nil
}

// compareKey compares query against a stored key as if both carried their
// terminating null: byte-wise, with a length tiebreak. A query that is a
// proper prefix of key sorts before it (its null terminator is the
// smallest byte), so the search descends toward the shorter key and a
// prefix is never mistaken for an exact match.
func compareKey(query, key []byte) int {
	n := len(query)
	if len(key) < n {
		n = len(key)
	}

	if c := bytes.Compare(query[:n], key[:n]); c != 0 {
		return c
	}

	switch {
	case len(query) == len(key):
		return 0
	case len(query) < len(key):
		return -1
	default:
		return 1
	}
}

// searchPrefix binary-searches idx (assumed sorted ascending in the
// prefix ordering) for an exact match against query, returning the
// matching entry's position.
func searchPrefix(idx indexArray, w words, query []byte) (int, error) {
	lo, hi := 0, len(idx.entries)
	for lo < hi {
		mid := (lo + hi) / 2

		we, err := w.at(idx.entries[mid])
		if err != nil {
			return 0, err
		}

		switch c := compareKey(query, we.key); {
		case c < 0:
			hi = mid
		case c > 0:
			lo = mid + 1
		default:
			return mid, nil
		}
	}

	return 0, errs.ErrNotFound
}

// foldHiraganaToKatakana folds every hiragana code point (U+3041..U+3093)
// in s to its katakana counterpart (+0x60); all other code points pass
// through unchanged.
func foldHiraganaToKatakana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x3041 && r <= 0x3093 {
			runes[i] = r + 0x60
		}
	}

	return string(runes)
}
