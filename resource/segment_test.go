package resource

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yomikata/monokakido/errs"
)

var testSegPattern = regexp.MustCompile(`^seg-(\d+)\.bin$`)

func writeSegFile(t *testing.T, dir string, seq int, content string) {
	t.Helper()
	path := filepath.Join(dir, "seg-"+strconv.Itoa(seq)+".bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func seqOf(name string) (int, bool) {
	m := testSegPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func TestOpenSegmentSet_DenseFromOne(t *testing.T) {
	dir := t.TempDir()
	writeSegFile(t, dir, 1, "AAAA")
	writeSegFile(t, dir, 2, "BBB")
	writeSegFile(t, dir, 3, "CC")

	ss, err := openSegmentSet(dir, 1, seqOf)
	require.NoError(t, err)
	require.Len(t, ss.segs, 3)
	require.Equal(t, int64(0), ss.segs[0].start)
	require.Equal(t, int64(4), ss.segs[1].start)
	require.Equal(t, int64(7), ss.segs[2].start)
	require.Equal(t, int64(9), ss.size)
}

func TestOpenSegmentSet_MissingStart(t *testing.T) {
	dir := t.TempDir()
	writeSegFile(t, dir, 2, "AAAA")

	_, err := openSegmentSet(dir, 1, seqOf)
	require.ErrorIs(t, err, errs.ErrMissingResourceFile)
}

func TestOpenSegmentSet_Gap(t *testing.T) {
	dir := t.TempDir()
	writeSegFile(t, dir, 1, "AAAA")
	writeSegFile(t, dir, 3, "BBBB")

	_, err := openSegmentSet(dir, 1, seqOf)
	require.ErrorIs(t, err, errs.ErrMissingResourceFile)
}

func TestSegmentSet_LocateAndReadAt(t *testing.T) {
	dir := t.TempDir()
	writeSegFile(t, dir, 1, "AAAA")
	writeSegFile(t, dir, 2, "BBB")

	ss, err := openSegmentSet(dir, 1, seqOf)
	require.NoError(t, err)
	defer ss.close()

	seg, local, err := ss.locate(5)
	require.NoError(t, err)
	require.Equal(t, 2, seg.seq)
	require.Equal(t, int64(1), local)

	data, err := ss.readAt(4, 3)
	require.NoError(t, err)
	require.Equal(t, "BBB", string(data))

	_, _, err = ss.locate(100)
	require.ErrorIs(t, err, errs.ErrInvalidIndex)
}

// TestSegmentSet_LocateRangeSemantics exercises locate's tri-valued range
// comparison directly, bypassing openSegmentSet so a zero-length segment is
// representable: a global offset is Less than a segment's start, Equal
// (resolves into it) when within its half-open range, and Greater (tried
// against the next segment) once at or past its end.
func TestSegmentSet_LocateRangeSemantics(t *testing.T) {
	ss := &segmentSet{segs: []segment{{seq: 0, start: 100, length: 0}}, size: 100}

	_, _, err := ss.locate(0)
	require.ErrorIs(t, err, errs.ErrInvalidIndex) // 0 < 100: Less, no containing segment

	_, _, err = ss.locate(100)
	require.ErrorIs(t, err, errs.ErrInvalidIndex) // [100,100) is empty: 100 >= end, Greater

	ss = &segmentSet{segs: []segment{{seq: 0, start: 0, length: 1}}, size: 1}
	seg, local, err := ss.locate(0)
	require.NoError(t, err) // [0,1) contains 0: Equal
	require.Equal(t, 0, seg.seq)
	require.Equal(t, int64(0), local)
}

func TestSegmentSet_ReadAtSeq(t *testing.T) {
	dir := t.TempDir()
	writeSegFile(t, dir, 0, "XXXXX")
	writeSegFile(t, dir, 1, "YYYYY")

	ss, err := openSegmentSet(dir, 0, seqOf)
	require.NoError(t, err)
	defer ss.close()

	data, err := ss.readAtSeq(1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, "YYY", string(data))

	_, err = ss.readAtSeq(5, 0, 1)
	require.ErrorIs(t, err, errs.ErrInvalidIndex)
}
