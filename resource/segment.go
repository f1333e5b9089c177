// Package resource implements the RSC and NRSC compressed resource
// containers: an ordered set of numbered segment files addressed by a
// cumulative global offset, layered under either a numeric item index (RSC)
// or a string-keyed id table (NRSC).
package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yomikata/monokakido/errs"
)

// segment describes one file in a segment-file set: its sequence number,
// byte length, and the cumulative global offset at which its bytes begin in
// the concatenated stream the set represents.
type segment struct {
	seq    int
	start  int64
	length int64
	file   *os.File
}

// end returns the exclusive end of this segment's half-open global range.
func (s *segment) end() int64 {
	return s.start + s.length
}

// segmentSet is a sorted, densely-numbered collection of segment files
// addressable by a single cumulative global offset.
type segmentSet struct {
	segs []segment
	size int64
}

// openSegmentSet opens every file in dir whose name matches seqOf (which
// returns the file's sequence number and ok=true, or ok=false to skip it),
// sorts them by sequence number, and verifies the sequence is dense
// starting at firstSeq. It fails with errs.ErrMissingResourceFile on any
// gap or unexpected start.
func openSegmentSet(dir string, firstSeq int, seqOf func(name string) (seq int, ok bool)) (*segmentSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	type candidate struct {
		seq  int
		path string
	}

	var cands []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if seq, ok := seqOf(e.Name()); ok {
			cands = append(cands, candidate{seq: seq, path: filepath.Join(dir, e.Name())})
		}
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i].seq < cands[j].seq })

	ss := &segmentSet{}
	want := firstSeq
	for _, c := range cands {
		if c.seq != want {
			return nil, errs.ErrMissingResourceFile
		}

		f, err := os.Open(c.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
		}

		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
		}

		ss.segs = append(ss.segs, segment{
			seq:    c.seq,
			start:  ss.size,
			length: info.Size(),
			file:   f,
		})
		ss.size += info.Size()
		want++
	}

	if len(ss.segs) == 0 {
		return nil, errs.ErrMissingResourceFile
	}

	return ss, nil
}

// close releases every open segment file handle.
func (ss *segmentSet) close() error {
	var first error
	for i := range ss.segs {
		if err := ss.segs[i].file.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// locate resolves a global offset to the segment containing it and the
// offset local to that segment, via binary search over the half-open
// segment ranges.
func (ss *segmentSet) locate(globalOffset int64) (*segment, int64, error) {
	i := sort.Search(len(ss.segs), func(i int) bool {
		return ss.segs[i].end() > globalOffset
	})

	if i == len(ss.segs) || globalOffset < ss.segs[i].start {
		return nil, 0, errs.ErrInvalidIndex
	}

	return &ss.segs[i], globalOffset - ss.segs[i].start, nil
}

// readAtSeq reads n bytes at localOffset within the segment whose sequence
// number is seq. Used by NRSC, which addresses segments directly by number
// rather than by a global cumulative offset.
func (ss *segmentSet) readAtSeq(seq int, localOffset int64, n int) ([]byte, error) {
	if seq < 0 || seq >= len(ss.segs) || ss.segs[seq].seq != seq {
		return nil, errs.ErrInvalidIndex
	}

	buf := make([]byte, n)
	if _, err := ss.segs[seq].file.ReadAt(buf, localOffset); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return buf, nil
}

// readAt reads n bytes starting at global offset off, possibly spanning
// segment boundaries is not supported: a compressed block or index record
// never crosses a segment file in this container format, so a single
// segment's ReadAt suffices.
func (ss *segmentSet) readAt(off int64, n int) ([]byte, error) {
	seg, local, err := ss.locate(off)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if _, err := seg.file.ReadAt(buf, local); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return buf, nil
}
