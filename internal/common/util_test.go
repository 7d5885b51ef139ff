package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	require.Len(t, a, 32)
	require.Len(t, b, 32)
	require.NotEqual(t, a, b, "two 32-byte salts must differ")
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("1234")
	WipeByteArray(buf)
	require.Equal(t, []byte{0, 0, 0, 0}, buf)

	require.NotPanics(t, func() { WipeByteArray(nil) })
}
