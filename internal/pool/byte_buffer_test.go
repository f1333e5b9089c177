package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_GrowDoubles(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.SetLength(4)
	require.Equal(t, 4, bb.Cap())

	bb.Grow(5)
	require.GreaterOrEqual(t, bb.Cap(), 5)
	require.Equal(t, 4, bb.Len(), "Grow must not change the current length")
}

func TestByteBuffer_GrowNoop(t *testing.T) {
	bb := NewByteBuffer(64)
	before := bb.Cap()
	bb.Grow(10)
	require.Equal(t, before, bb.Cap())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.SetLength(16)
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 16, bb.Cap())
}

func TestByteBuffer_SetLengthPanicsOutOfRange(t *testing.T) {
	bb := NewByteBuffer(4)
	require.Panics(t, func() { bb.SetLength(5) })
	require.Panics(t, func() { bb.SetLength(-1) })
}
