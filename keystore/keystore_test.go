package keystore

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yomikata/monokakido/errs"
	"github.com/yomikata/monokakido/format"
)

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

// buildWordEntry encodes one words-region entry: pagesOffset, a one-byte
// key length, the key bytes, and a null terminator.
func buildWordEntry(buf *bytes.Buffer, pagesOffset uint32, key string) {
	putU32(buf, pagesOffset)
	buf.WriteByte(byte(len(key)))
	buf.WriteString(key)
	buf.WriteByte(0)
}

// buildKeystoreFile assembles a minimal, single-ordering (prefix) keystore
// file out of (key, pageRunBytes) pairs, already given in sorted prefix
// order.
func buildKeystoreFile(t *testing.T, entries []struct {
	key string
	run []byte
}) string {
	t.Helper()

	var words bytes.Buffer
	runOffsets := make([]uint32, len(entries))
	for i, e := range entries {
		runOffsets[i] = uint32(words.Len())
		words.Write(e.run)
	}

	wordOffsets := make([]uint32, len(entries))
	for i, e := range entries {
		wordOffsets[i] = uint32(words.Len())
		buildWordEntry(&words, runOffsets[i], e.key)
	}

	const headerSize = 32
	wordsOffset := uint32(headerSize)
	idxOffset := wordsOffset + uint32(words.Len())

	var idxHeader bytes.Buffer
	putU32(&idxHeader, indexHeaderMagic)
	putU32(&idxHeader, 0)  // length ordering absent
	putU32(&idxHeader, 20) // prefix ordering starts right after this header
	putU32(&idxHeader, 0)  // suffix ordering absent
	putU32(&idxHeader, 0)  // d ordering absent

	var prefixArray bytes.Buffer
	putU32(&prefixArray, uint32(len(entries)))
	for _, off := range wordOffsets {
		putU32(&prefixArray, off)
	}

	var file bytes.Buffer
	putU32(&file, fileHeaderMagic)
	putU32(&file, 0)
	putU32(&file, wordsOffset)
	putU32(&file, idxOffset)
	putU32(&file, 0)
	putU32(&file, 0)
	putU32(&file, 0)
	putU32(&file, 0)
	file.Write(words.Bytes())
	file.Write(idxHeader.Bytes())
	file.Write(prefixArray.Bytes())

	dir := t.TempDir()
	path := filepath.Join(dir, "headword.keystore")
	require.NoError(t, os.WriteFile(path, file.Bytes(), 0o600))

	return path
}

func TestKeystore_TwoKeyFixture(t *testing.T) {
	path := buildKeystoreFile(t, []struct {
		key string
		run []byte
	}{
		{key: "b", run: []byte{0x00, 0x00}},
		{key: "ア", run: []byte{0x02, 0x00, 0x02, 0x01, 0x2C, 0x11, 0x05, 0x07}},
	})

	ks, err := Open(path)
	require.NoError(t, err)

	n, err := ks.Len(OrderingPrefix)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	key, it, err := ks.GetIdx(OrderingPrefix, 0)
	require.NoError(t, err)
	require.Equal(t, "b", key)
	require.Equal(t, 0, it.Len())
	_, ok := it.Next()
	require.False(t, ok)

	key, it, err = ks.GetIdx(OrderingPrefix, 1)
	require.NoError(t, err)
	require.Equal(t, "ア", key)
	require.Equal(t, 2, it.Len())

	id, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, format.PageItemID{Page: 300, Item: 0}, id)

	id, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, format.PageItemID{Page: 5, Item: 7}, id)

	_, ok = it.Next()
	require.False(t, ok)

	_, _, err = ks.GetIdx(OrderingLength, 0)
	require.ErrorIs(t, err, errs.ErrIndexDoesntExist)
}

func TestKeystore_SearchExact_FoldsHiragana(t *testing.T) {
	path := buildKeystoreFile(t, []struct {
		key string
		run []byte
	}{
		{key: "ア", run: []byte{0x01, 0x00, 0x01, 0x09}},
	})

	ks, err := Open(path)
	require.NoError(t, err)

	mid, it, err := ks.SearchExact("あ")
	require.NoError(t, err)
	require.Equal(t, 0, mid)
	require.Equal(t, 1, it.Len())

	id, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, format.PageItemID{Page: 9, Item: 0}, id)
}

func TestKeystore_SearchExact_PrefixIsNotAMatch(t *testing.T) {
	path := buildKeystoreFile(t, []struct {
		key string
		run []byte
	}{
		{key: "ab", run: []byte{0x00, 0x00}},
	})

	ks, err := Open(path)
	require.NoError(t, err)

	_, _, err = ks.SearchExact("a")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestKeystore_SearchExact_KeyThatPrefixesALaterKey(t *testing.T) {
	path := buildKeystoreFile(t, []struct {
		key string
		run []byte
	}{
		{key: "ア", run: []byte{0x01, 0x00, 0x01, 0x03}},
		{key: "アイ", run: []byte{0x01, 0x00, 0x01, 0x04}},
	})

	ks, err := Open(path)
	require.NoError(t, err)

	mid, it, err := ks.SearchExact("ア")
	require.NoError(t, err)
	require.Equal(t, 0, mid)

	id, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, format.PageItemID{Page: 3, Item: 0}, id)

	mid, _, err = ks.SearchExact("アイ")
	require.NoError(t, err)
	require.Equal(t, 1, mid)
}

func TestFoldHiraganaToKatakana(t *testing.T) {
	require.Equal(t, "ア", foldHiraganaToKatakana("あ"))
	require.Equal(t, "abc123", foldHiraganaToKatakana("abc123"))
	require.Equal(t, "アイウ", foldHiraganaToKatakana("あいう"))
}

func TestCompareKey(t *testing.T) {
	require.Equal(t, 0, compareKey([]byte("cat"), []byte("cat")))
	require.Equal(t, 1, compareKey([]byte("cat"), []byte("ca")))  // query longer
	require.Equal(t, -1, compareKey([]byte("ca"), []byte("cat"))) // query is a proper prefix: sorts before, no match
	require.Equal(t, -1, compareKey([]byte("bat"), []byte("cat")))
	require.Equal(t, 1, compareKey([]byte("cat"), []byte("bat")))
}

func TestPageIterator_EmptyRun(t *testing.T) {
	it, err := NewPageIterator([]byte{0x00, 0x00})
	require.NoError(t, err)
	require.Equal(t, 0, it.Len())
	_, ok := it.Next()
	require.False(t, ok)
}

func TestPageIterator_UnknownTag(t *testing.T) {
	_, err := NewPageIterator([]byte{0x01, 0x00, 0x09, 0xFF})
	require.ErrorIs(t, err, errs.ErrInvalidIndex)
}

func TestPageIterator_Truncated(t *testing.T) {
	_, err := NewPageIterator([]byte{0x01, 0x00, 0x04})
	require.ErrorIs(t, err, errs.ErrInvalidIndex)
}
