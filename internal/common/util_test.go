package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	s, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)
	_, err = hex.DecodeString(s)
	assert.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 6), buf)

	WipeByteArray(nil)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", NormalizeEmail("  Ann@X.com "))
}

func TestTrimmedLen(t *testing.T) {
	assert.Equal(t, 0, TrimmedLen("    "))
	assert.Equal(t, 4, TrimmedLen("  abcd\n"))
	assert.Equal(t, 5, TrimmedLen("héllo"))
}

func TestValidationError_CollectsAllFields(t *testing.T) {
	v := NewValidationError("Validation failed.")
	require.NoError(t, v.OrNil())

	v.Add("title", "too short")
	v.Add("content", "too short")

	err := fmt.Errorf("wrapped: %w", v.OrNil())
	got, ok := AsValidationError(err)
	require.True(t, ok)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, []FieldError{{"title", "too short"}, {"content", "too short"}}, got.Fields)
	assert.Equal(t, "Validation failed. (title: too short; content: too short)", got.Error())
}

func TestValidationError_NotMatchingOtherErrors(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.False(t, IsValidationError(ErrorNotFound))
}
