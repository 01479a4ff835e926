package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIN(t *testing.T) {
	for i := 0; i < 200; i++ {
		pin, err := PIN()
		require.NoError(t, err)
		assert.Len(t, pin, PINLength)
		assert.True(t, IsValidPIN(pin), "generated pin %q should be valid", pin)
	}
}

func TestIsValidPIN(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"", false},
		{"１２３４５６", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidPIN(tt.pin), "IsValidPIN(%q)", tt.pin)
	}
}

func TestUserIDIsTimeOrderedUUID(t *testing.T) {
	first := UserID()
	second := UserID()

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	assert.NotEqual(t, first, second)
	assert.True(t, strings.Compare(first, second) < 0, "v7 ids should sort by creation order")
}

func TestSessionID(t *testing.T) {
	parsed, err := uuid.Parse(SessionID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}
