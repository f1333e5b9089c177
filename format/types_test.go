package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMediaIDString(t *testing.T) {
	require.Equal(t, "0000000012", NumericMediaID(12).String())
	require.Equal(t, "2345678901", NumericMediaID(2345678901).String())
	require.Equal(t, "voice_001", StringMediaID("voice_001").String())
}

func TestPageItemIDString(t *testing.T) {
	require.Equal(t, "300/0", PageItemID{Page: 300}.String())
	require.Equal(t, "5/7", PageItemID{Page: 5, Item: 7}.String())
}
