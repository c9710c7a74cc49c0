// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// tokenAlphabet is the 62-character alphanumeric alphabet used for
// email-verification and password-reset tokens.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomToken returns a random alphanumeric string of the given length.
//
// # Uniformity
//
// Each character is drawn independently with [crypto/rand.Int], which performs
// rejection sampling internally, so every alphabet character is equally likely
// (no modulo bias).
func GenerateRandomToken(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(tokenAlphabet)))

	token := make([]byte, length)
	for i := range token {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("sec: failed to generate random token: %w", err)
		}
		token[i] = tokenAlphabet[index.Int64()]
	}

	return string(token), nil
}
