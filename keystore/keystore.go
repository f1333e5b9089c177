package keystore

import (
	"fmt"
	"os"

	"github.com/yomikata/monokakido/errs"
)

// Keystore is a read-only handle onto one headword.keystore file: the
// words region and up to four parallel key orderings built over it.
type Keystore struct {
	words  words
	header indexSetHeader

	arrays [4]*indexArray // indexed by Ordering; nil when absent
}

// Open reads and validates path in full, loading the words region and
// every present index ordering.
func Open(path string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	fh, err := parseFileHeader(data)
	if err != nil {
		return nil, err
	}

	if int(fh.idxOffset) > len(data) {
		return nil, errs.ErrKeyFileHeaderValidate
	}

	ih, err := parseIndexSetHeader(data[fh.idxOffset:], len(data)-int(fh.idxOffset))
	if err != nil {
		return nil, err
	}

	ks := &Keystore{
		words:  words(data[fh.wordsOffset:fh.idxOffset]),
		header: ih,
	}

	orderings := [4]struct {
		ord Ordering
		off uint32
	}{
		{OrderingLength, ih.offsetLength},
		{OrderingPrefix, ih.offsetPrefix},
		{OrderingSuffix, ih.offsetSuffix},
		{OrderingD, ih.offsetD},
	}

	fileEnd := uint32(len(data) - int(fh.idxOffset))
	for _, o := range orderings {
		if o.off == 0 {
			continue
		}

		end := regionEnd(ih, o.off, fileEnd)
		lenWords := int(end-o.off) / 4

		arr, err := loadIndexArray(data[fh.idxOffset+o.off:], lenWords)
		if err != nil {
			return nil, err
		}

		ks.arrays[o.ord] = &arr
	}

	return ks, nil
}

// regionEnd finds the smallest boundary strictly greater than off among
// the index-set header's other (nonzero) offsets and fileEnd — the end of
// the index array that begins at off.
func regionEnd(h indexSetHeader, off, fileEnd uint32) uint32 {
	best := fileEnd
	for _, candidate := range [4]uint32{h.offsetLength, h.offsetPrefix, h.offsetSuffix, h.offsetD} {
		if candidate > off && candidate < best {
			best = candidate
		}
	}

	return best
}

// Len returns the number of keys in the given ordering.
func (ks *Keystore) Len(o Ordering) (int, error) {
	arr := ks.arrays[o]
	if arr == nil {
		return 0, errs.ErrIndexDoesntExist
	}

	return len(arr.entries), nil
}

// GetIdx returns the key at position i in ordering o, along with an
// iterator over its page-reference run.
func (ks *Keystore) GetIdx(o Ordering, i int) (string, *PageIterator, error) {
	arr := ks.arrays[o]
	if arr == nil {
		return "", nil, errs.ErrIndexDoesntExist
	}
	if i < 0 || i >= len(arr.entries) {
		return "", nil, errs.ErrInvalidIndex
	}

	we, err := ks.words.at(arr.entries[i])
	if err != nil {
		return "", nil, err
	}

	runBuf, err := ks.words.from(we.pagesOffset)
	if err != nil {
		return "", nil, err
	}

	it, err := NewPageIterator(runBuf)
	if err != nil {
		return "", nil, err
	}

	return string(we.key), it, nil
}

// SearchExact normalizes keyword (hiragana folded to katakana) and looks
// it up in the prefix ordering, the only ordering the container supports
// for exact-match lookup. It returns the matching position (stable across
// the other GetIdx(OrderingPrefix, ...) calls) and an iterator over the
// match's page-reference run.
func (ks *Keystore) SearchExact(keyword string) (int, *PageIterator, error) {
	arr := ks.arrays[OrderingPrefix]
	if arr == nil {
		return 0, nil, errs.ErrIndexDoesntExist
	}

	folded := foldHiraganaToKatakana(keyword)

	mid, err := searchPrefix(*arr, ks.words, []byte(folded))
	if err != nil {
		return 0, nil, err
	}

	we, err := ks.words.at(arr.entries[mid])
	if err != nil {
		return 0, nil, err
	}

	runBuf, err := ks.words.from(we.pagesOffset)
	if err != nil {
		return 0, nil, err
	}

	it, err := NewPageIterator(runBuf)
	if err != nil {
		return 0, nil, err
	}

	return mid, it, nil
}
