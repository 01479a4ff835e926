/*
Package randx provides functions for generating cryptographically secure pairing PINs and unique identifiers.

PINs are short numeric codes the customer reads out to the agent (Bring Your Own PIN mode).
User IDs are time-ordered UUIDv7 values so that identifiers remain unique under rapid concurrent issuance.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// PINDigits defines the character set used for pairing PINs.
	PINDigits = "0123456789"

	// PINLength is the fixed length of a generated pairing PIN.
	PINLength = 6
)

// PIN generates a numeric pairing PIN using a cryptographically secure random number generator (crypto/rand).
// It returns a string of length PINLength and any error encountered.
func PIN() (string, error) {
	result := make([]byte, PINLength)
	limit := big.NewInt(int64(len(PINDigits)))

	for i := 0; i < PINLength; i++ {
		num, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for pin: %v", err)
		}

		result[i] = PINDigits[num.Int64()]
	}

	return string(result), nil
}

// IsValidPIN checks that the given string has length PINLength and consists only of ASCII digits.
func IsValidPIN(pin string) bool {
	if len(pin) != PINLength {
		return false
	}

	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}

	return true
}

// UserID generates a UUIDv7 string: a millisecond timestamp prefix followed by random bits.
func UserID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SessionID generates a standard UUID v4 string to identify a cobrowse session.
func SessionID() string {
	return uuid.New().String()
}
