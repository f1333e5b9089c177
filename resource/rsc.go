package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/inflate"
	"github.com/yomikata/monokakido/layout"
)

// IdxRecord maps an external numeric item id to a position in the map
// array. Present only when the container ships an optional .idx file.
type IdxRecord struct {
	ItemID uint32
	MapIdx uint32
}

// MapRecord locates one item's compressed payload: Zoffset is a global
// offset into the segment-file stream where a zlib block begins, Ioffset is
// the offset inside the decompressed block where the item's own
// length-prefixed payload starts.
type MapRecord struct {
	Zoffset uint32
	Ioffset uint32
}

var rscSegmentPattern = regexp.MustCompile(`^(.+)-(\d+)\.rsc$`)

// rscCache is a single last-used decompressed-block window shared by all
// reads against one Rsc value.
type rscCache struct {
	zoffset uint32
	valid   bool
	data    []byte
}

// RscIndex is the in-memory representation of a resource's optional .idx
// file and required .map file.
type RscIndex struct {
	idx []IdxRecord // nil when no .idx file exists
	m   []MapRecord
}

// loadIdxFile reads and validates a .idx file: a u32le length at offset 0,
// 4 reserved bytes, then length packed IdxRecords. The file must be
// exactly 8 + length*sizeof(IdxRecord) bytes.
func loadIdxFile(path string) ([]IdxRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	if len(data) < 8 {
		return nil, errs.ErrIncorrectStreamLength
	}

	length, _, err := layout.ReadU32(data)
	if err != nil {
		return nil, err
	}

	const recSize = 8 // two uint32 fields
	want := 8 + int(length)*recSize
	if len(data) != want {
		return nil, errs.ErrIncorrectStreamLength
	}

	recs, _, err := layout.Records[IdxRecord](data[8:], int(length))
	if err != nil {
		return nil, err
	}

	return recs, nil
}

// loadMapFile reads and validates a .map file: 4 unread bytes, a u32le
// length at offset 4, then length packed MapRecords.
func loadMapFile(path string) ([]MapRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	if len(data) < 8 {
		return nil, errs.ErrIncorrectStreamLength
	}

	length, _, err := layout.ReadU32(data[4:])
	if err != nil {
		return nil, err
	}

	const recSize = 8
	want := 8 + int(length)*recSize
	if len(data) != want {
		return nil, errs.ErrIncorrectStreamLength
	}

	recs, _, err := layout.Records[MapRecord](data[8:], int(length))
	if err != nil {
		return nil, err
	}

	return recs, nil
}

// loadRscIndex loads stem.map (required) and stem.idx (optional, ignored if
// absent) out of dir.
func loadRscIndex(dir, stem string) (*RscIndex, error) {
	mapPath := filepath.Join(dir, stem+".map")
	m, err := loadMapFile(mapPath)
	if err != nil {
		return nil, err
	}

	ri := &RscIndex{m: m}

	idxPath := filepath.Join(dir, stem+".idx")
	if _, statErr := os.Stat(idxPath); statErr == nil {
		idx, err := loadIdxFile(idxPath)
		if err != nil {
			return nil, err
		}
		ri.idx = idx
	}

	return ri, nil
}

// getMapIdxByID resolves an external item id to a position in the map
// array, per the hint-then-binary-search strategy: try idx=min(id,len-1),
// then idx=min(max(id-1,0),len-1), then fall back to a binary search over
// the (assumed ItemID-sorted) index array.
func (ri *RscIndex) getMapIdxByID(id uint32) (int, error) {
	if ri.idx == nil {
		return int(id), nil
	}

	n := len(ri.idx)
	if n == 0 {
		return 0, errs.ErrNotFound
	}

	hint := int(id)
	if hint > n-1 {
		hint = n - 1
	}
	if ri.idx[hint].ItemID == id {
		return int(ri.idx[hint].MapIdx), nil
	}

	hint2 := int(id) - 1
	if hint2 < 0 {
		hint2 = 0
	}
	if hint2 > n-1 {
		hint2 = n - 1
	}
	if ri.idx[hint2].ItemID == id {
		return int(ri.idx[hint2].MapIdx), nil
	}

	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case ri.idx[mid].ItemID < id:
			lo = mid + 1
		case ri.idx[mid].ItemID > id:
			hi = mid
		default:
			return int(ri.idx[mid].MapIdx), nil
		}
	}

	return 0, errs.ErrNotFound
}

// itemIDAt returns the external item id for map-array position idx. With
// an item index present, the record at position idx must map back to idx;
// anything else means the .idx and .map files disagree.
func (ri *RscIndex) itemIDAt(idx int) (uint32, error) {
	if ri.idx == nil {
		return uint32(idx), nil
	}

	if idx < 0 || idx >= len(ri.idx) {
		return 0, errs.ErrInvalidIndex
	}

	rec := ri.idx[idx]
	if int(rec.MapIdx) != idx {
		return 0, errs.ErrInvalidIndex
	}

	return rec.ItemID, nil
}

// Len returns the number of addressable items, i.e. the map array's length.
func (ri *RscIndex) Len() int {
	return len(ri.m)
}

// Rsc is a read-only handle onto one RSC resource: a required .map file, an
// optional .idx file, and the segment-file set holding the compressed
// payload bytes the map records point into.
type Rsc struct {
	index *RscIndex
	segs  *segmentSet
	state *inflate.State
	cache rscCache
}

// OpenRsc opens the RSC resource rooted at dir, whose segment files are
// named "<stem>-NNNN.rsc" (dense, starting at 1) and whose index files are
// "<stem>.map" and, optionally, "<stem>.idx".
func OpenRsc(dir, stem string) (*Rsc, error) {
	index, err := loadRscIndex(dir, stem)
	if err != nil {
		return nil, err
	}

	segs, err := openSegmentSet(dir, 1, func(name string) (int, bool) {
		m := rscSegmentPattern.FindStringSubmatch(name)
		if m == nil || m[1] != stem {
			return 0, false
		}
		seq, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		return seq, true
	})
	if err != nil {
		return nil, err
	}

	return &Rsc{index: index, segs: segs, state: inflate.NewState()}, nil
}

// Close releases the resource's open segment file handles.
func (r *Rsc) Close() error {
	return r.segs.close()
}

// Len returns the number of addressable items.
func (r *Rsc) Len() int {
	return r.index.Len()
}

// Get decompresses and returns the payload for item id. The returned slice
// is a view into the resource's decompression cache and is only valid
// until the next call to Get or GetByIdx.
func (r *Rsc) Get(id uint32) ([]byte, error) {
	mapIdx, err := r.index.getMapIdxByID(id)
	if err != nil {
		return nil, err
	}

	if r.index.idx != nil && mapIdx >= len(r.index.m) {
		return nil, errs.ErrIndexMismatch
	}

	return r.getByMapIdx(mapIdx)
}

// GetByIdx returns the (item id, payload) pair at map-array position idx.
func (r *Rsc) GetByIdx(idx int) (uint32, []byte, error) {
	itemID, err := r.index.itemIDAt(idx)
	if err != nil {
		return 0, nil, err
	}

	data, err := r.getByMapIdx(idx)
	if err != nil {
		return 0, nil, err
	}

	return itemID, data, nil
}

func (r *Rsc) getByMapIdx(mapIdx int) ([]byte, error) {
	if mapIdx < 0 || mapIdx >= len(r.index.m) {
		return nil, errs.ErrInvalidIndex
	}

	rec := r.index.m[mapIdx]

	if !r.cache.valid || r.cache.zoffset != rec.Zoffset {
		block, err := r.readCompressedBlock(rec.Zoffset)
		if err != nil {
			return nil, err
		}

		out, err := r.state.Inflate(block)
		if err != nil {
			return nil, err
		}

		buf := make([]byte, len(out))
		copy(buf, out)

		r.cache = rscCache{zoffset: rec.Zoffset, valid: true, data: buf}
	}

	return sliceLengthPrefixed(r.cache.data, int(rec.Ioffset))
}

// readCompressedBlock reads the length-prefixed compressed block beginning
// at the given global offset: a u32le length, followed by that many bytes.
func (r *Rsc) readCompressedBlock(zoffset uint32) ([]byte, error) {
	header, err := r.segs.readAt(int64(zoffset), 4)
	if err != nil {
		return nil, err
	}

	length, _, err := layout.ReadU32(header)
	if err != nil {
		return nil, err
	}

	return r.segs.readAt(int64(zoffset)+4, int(length))
}

// sliceLengthPrefixed reads a u32le length at offset off within data and
// returns the following that-many bytes.
func sliceLengthPrefixed(data []byte, off int) ([]byte, error) {
	if off < 0 || off+4 > len(data) {
		return nil, errs.ErrInvalidIndex
	}

	length, tail, err := layout.ReadU32(data[off:])
	if err != nil {
		return nil, err
	}

	if int(length) > len(tail) {
		return nil, errs.ErrInvalidIndex
	}

	return tail[:length], nil
}
