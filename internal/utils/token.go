package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const verificationTokenBytes = 32

// GenerateVerificationToken returns 32 random bytes, hex encoded.
func GenerateVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
