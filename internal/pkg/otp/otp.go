package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Digits is the length of a generated code.
const Digits = 6

// span covers the 6-digit range 100000..999999 inclusive.
var span = big.NewInt(900000)

// Generate returns a uniformly random 6-digit numeric code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
