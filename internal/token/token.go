// Package token generates share tokens: opaque, unguessable strings drawn
// from a cryptographically secure random source. Tokens are never sequential
// and never derived from document or user identifiers.
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// Length is the number of characters in a generated share token.
	Length = 32

	// PrefixLength is the number of leading token characters that may appear
	// in logs and audit entries. A full token is never logged.
	PrefixLength = 8

	// DefaultTTL is the share expiry applied when the creator sets none.
	DefaultTTL = 7 * 24 * time.Hour

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Generate returns a new random share token of Length alphanumeric characters.
func Generate() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// DefaultExpiry returns the expiry applied to a share created at now with no
// explicit expiry.
func DefaultExpiry(now time.Time) time.Time {
	return now.Add(DefaultTTL)
}

// Prefix returns the loggable form of a token: its first PrefixLength
// characters.
func Prefix(tok string) string {
	if len(tok) <= PrefixLength {
		return tok
	}
	return tok[:PrefixLength]
}
