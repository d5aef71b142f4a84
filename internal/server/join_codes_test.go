package server_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planning-game-server/internal/server"
)

func TestGenerateJoinCodeFormat(t *testing.T) {
	usedCodes := make(map[string]bool)

	for n := 0; n < 100; n++ {
		code, err := server.GenerateJoinCode(usedCodes, 10)
		require.NoError(t, err)

		assert.Equal(t, 6, len(code))
		for _, ch := range code {
			assert.True(t, ch >= 'A' && ch <= 'Z')
		}
	}
}

func TestGenerateJoinCodeAvoidsUsedCodes(t *testing.T) {
	usedCodes := map[string]bool{
		"AAAAAA": true,
		"ZZZZZZ": true,
		"TESTED": true,
	}

	for n := 0; n < 100; n++ {
		code, err := server.GenerateJoinCode(usedCodes, 10)
		require.NoError(t, err)
		assert.False(t, usedCodes[code])
	}
}

func TestGenerateJoinCodeExhaustion(t *testing.T) {
	_, err := server.GenerateJoinCode(nil, 0)
	assert.ErrorIs(t, err, server.ErrJoinCodesExhausted)
}

func TestValidateJoinCode(t *testing.T) {
	for _, code := range []string{"BEARSS", "GAMEON", "AAAAAA"} {
		assert.NoError(t, server.ValidateJoinCode(code), "code %s should be valid", code)
	}

	for _, code := range []string{"", "A", "ABCDE", "ABCDEFG"} {
		err := server.ValidateJoinCode(code)
		assert.Error(t, err, "code %s should be invalid", code)
		assert.Contains(t, err.Error(), "exactly 6 characters")
	}

	for _, code := range []string{"123456", "AB-CD!", "ABC DE"} {
		err := server.ValidateJoinCode(code)
		assert.Error(t, err, "code %s should be invalid", code)
		assert.Contains(t, err.Error(), "letters A-Z")
	}
}

func TestNormalizeJoinCode(t *testing.T) {
	assert.Equal(t, "ABCDEF", server.NormalizeJoinCode(" abcdef "))
}
