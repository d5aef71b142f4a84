package server

import (
	"errors"
	"math/rand"
	"strings"
)

const (
	joinCodeLength      = 6
	maxJoinCodeAttempts = 10
)

var ErrJoinCodesExhausted = errors.New("JOIN_CODES_EXHAUSTED: could not generate an unused join code")

// GenerateJoinCode produces a join code not present in usedCodes, giving up
// after maxAttempts collisions.
func GenerateJoinCode(usedCodes map[string]bool, maxAttempts int) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := make([]byte, joinCodeLength)
		for i := range code {
			code[i] = 'A' + byte(rand.Intn(26))
		}
		joinCode := string(code)

		if !usedCodes[joinCode] {
			return joinCode, nil
		}
	}
	return "", ErrJoinCodesExhausted
}

func ValidateJoinCode(code string) error {
	if len(code) != joinCodeLength {
		return errors.New("Join code must be exactly 6 characters")
	}

	code = strings.ToUpper(code)
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			return errors.New("Join code must contain only letters A-Z")
		}
	}

	return nil
}

func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
