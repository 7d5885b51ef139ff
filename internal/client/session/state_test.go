package session

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/pinvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePIN(t *testing.T) {
	for _, ok := range []string{"1234", "abcd", strings.Repeat("9", 15), "ünïc"} {
		assert.NoError(t, ValidatePIN(ok), ok)
	}
	for _, bad := range []string{"", "123", strings.Repeat("9", 16)} {
		assert.ErrorIs(t, ValidatePIN(bad), common.ErrInvalidArgument, bad)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "no-credential", NoCredential.String())
	assert.Equal(t, "locked", Locked.String())
	assert.Equal(t, "unlocked", Unlocked.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestParseAppState(t *testing.T) {
	got, err := ParseAppState(" Background ")
	require.NoError(t, err)
	assert.Equal(t, AppBackground, got)

	_, err = ParseAppState("asleep")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}
