package resource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/inflate"
	"github.com/yomikata/monokakido/layout"
)

// audioFormat is the decompression discriminator carried by each
// NrscIdxRecord.
type audioFormat uint16

const (
	audioFormatRaw  audioFormat = 0
	audioFormatZlib audioFormat = 1
)

// NrscIdxRecord is one entry in an NRSC index file: a string-keyed pointer
// to a byte range within one segment file.
type NrscIdxRecord struct {
	Format      uint16
	FileSeq     uint16
	IDStrOffset uint32
	FileOffset  uint32
	Len         uint32
}

var nrscSegmentPattern = regexp.MustCompile(`^(\d+)\.nrsc$`)

const nrscIdxHeaderSize = 8
const nrscIdxRecordSize = 16

// NrscIndex is the in-memory representation of an NRSC index.nidx file: the
// fixed record array plus the raw id-table bytes the records' IDStrOffset
// fields point into.
type NrscIndex struct {
	recs []NrscIdxRecord
	ids  []byte // id-table region following the record array
}

// loadNrscIndex reads and validates dir/index.nidx: an 8-byte header whose
// last 4 bytes hold the record count, the packed record array, then the id
// table occupying the remainder of the file.
func loadNrscIndex(dir string) (*NrscIndex, error) {
	path := filepath.Join(dir, "index.nidx")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	if len(data) < nrscIdxHeaderSize {
		return nil, errs.ErrIncorrectStreamLength
	}

	length, _, err := layout.ReadU32(data[4:])
	if err != nil {
		return nil, err
	}

	prefix := nrscIdxHeaderSize + int(length)*nrscIdxRecordSize
	if len(data) < prefix {
		return nil, errs.ErrIncorrectStreamLength
	}

	recs, _, err := layout.Records[NrscIdxRecord](data[nrscIdxHeaderSize:], int(length))
	if err != nil {
		return nil, err
	}

	return &NrscIndex{recs: recs, ids: data[prefix:]}, nil
}

// Len returns the number of addressable items.
func (ni *NrscIndex) Len() int {
	return len(ni.recs)
}

// idAt materializes the null-terminated id string stored at idStrOffset,
// an offset relative to the start of the index file. The fixed
// header+records prefix is subtracted first; a computed offset that is
// nonzero but whose preceding byte is not a null terminator points into
// the middle of another key and is rejected.
func (ni *NrscIndex) idAt(idStrOffset uint32) (string, error) {
	off := int(idStrOffset) - (nrscIdxHeaderSize + len(ni.recs)*nrscIdxRecordSize)
	if off < 0 || off > len(ni.ids) {
		return "", errs.ErrInvalidIndex
	}

	if off != 0 && ni.ids[off-1] != 0 {
		return "", errs.ErrInvalidIndex
	}

	end := bytes.IndexByte(ni.ids[off:], 0)
	if end < 0 {
		return "", errs.ErrInvalidIndex
	}

	key := ni.ids[off : off+end]
	if !utf8.Valid(key) {
		return "", errs.ErrUTF8
	}

	return string(key), nil
}

// getByID binary-searches the record array, ordered by the UTF-8 byte
// ordering of each record's materialized id string, for an exact match.
// A materialization error encountered mid-search is remembered and
// returned once the search concludes, rather than being silently treated
// as a comparator miss.
func (ni *NrscIndex) getByID(id string) (int, error) {
	var deferredErr error

	lo, hi := 0, len(ni.recs)
	for lo < hi {
		mid := (lo + hi) / 2

		key, err := ni.idAt(ni.recs[mid].IDStrOffset)
		if err != nil {
			deferredErr = err
			key = ""
		}

		switch {
		case key < id:
			lo = mid + 1
		case key > id:
			hi = mid
		default:
			if deferredErr != nil {
				return 0, deferredErr
			}
			return mid, nil
		}
	}

	if deferredErr != nil {
		return 0, deferredErr
	}

	return 0, errs.ErrNotFound
}

// Nrsc is a read-only handle onto one NRSC resource: an index.nidx file and
// the zero-based dense segment-file set its records point into.
type Nrsc struct {
	index *NrscIndex
	segs  *segmentSet
	state *inflate.State
}

// OpenNrsc opens the NRSC resource rooted at dir, whose segment files are
// named "NNNNN.nrsc" (dense, starting at 0) and whose index is
// "index.nidx".
func OpenNrsc(dir string) (*Nrsc, error) {
	index, err := loadNrscIndex(dir)
	if err != nil {
		return nil, err
	}

	segs, err := openSegmentSet(dir, 0, func(name string) (int, bool) {
		m := nrscSegmentPattern.FindStringSubmatch(name)
		if m == nil {
			return 0, false
		}
		seq, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return seq, true
	})
	if err != nil {
		return nil, err
	}

	return &Nrsc{index: index, segs: segs, state: inflate.NewState()}, nil
}

// Close releases the resource's open segment file handles.
func (n *Nrsc) Close() error {
	return n.segs.close()
}

// Len returns the number of addressable items.
func (n *Nrsc) Len() int {
	return n.index.Len()
}

// GetByID decompresses (if needed) and returns the payload stored under
// string id, plus the index position it was found at.
func (n *Nrsc) GetByID(id string) (int, []byte, error) {
	idx, err := n.index.getByID(id)
	if err != nil {
		return 0, nil, err
	}

	data, err := n.getByIdx(idx)
	if err != nil {
		return 0, nil, err
	}

	return idx, data, nil
}

// GetByIdx returns the (id, payload) pair at record position idx.
func (n *Nrsc) GetByIdx(idx int) (string, []byte, error) {
	if idx < 0 || idx >= len(n.index.recs) {
		return "", nil, errs.ErrInvalidIndex
	}

	id, err := n.index.idAt(n.index.recs[idx].IDStrOffset)
	if err != nil {
		return "", nil, err
	}

	data, err := n.getByIdx(idx)
	if err != nil {
		return "", nil, err
	}

	return id, data, nil
}

func (n *Nrsc) getByIdx(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(n.index.recs) {
		return nil, errs.ErrInvalidIndex
	}

	rec := n.index.recs[idx]

	raw, err := n.segs.readAtSeq(int(rec.FileSeq), int64(rec.FileOffset), int(rec.Len))
	if err != nil {
		return nil, err
	}

	switch audioFormat(rec.Format) {
	case audioFormatRaw:
		return raw, nil
	case audioFormatZlib:
		// The returned slice aliases the decompression scratch buffer
		// and is only valid until the next read on this Nrsc.
		return n.state.Inflate(raw)
	default:
		return nil, errs.ErrInvalidAudioFormat
	}
}
