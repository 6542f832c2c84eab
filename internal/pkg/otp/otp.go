package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// ErrInvalidLength is returned when the requested code length is out of range.
var ErrInvalidLength = errors.New("otp: code length must be between 4 and 10 digits")

const (
	minCodeLength = 4
	maxCodeLength = 10
)

// Generator creates short-lived numeric codes used as a second factor.
type Generator interface {
	// Code returns a numeric code of the given digit length.
	Code(length int) (string, error)
}

// NumericCode implements Generator with crypto/rand.
//
// Codes are drawn uniformly from [0, 10^length), zero-padded, so they are
// never derivable from observable state such as time.
type NumericCode struct{}

// NewNumericCode returns a numeric code generator.
func NewNumericCode() *NumericCode {
	return &NumericCode{}
}

// Code returns a numeric code of the given digit length.
func (g *NumericCode) Code(length int) (string, error) {
	if length < minCodeLength || length > maxCodeLength {
		return "", ErrInvalidLength
	}

	limit := big.NewInt(10)
	for range length - 1 {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}

	digits := n.String()
	for len(digits) < length {
		digits = "0" + digits
	}

	return digits, nil
}

// IsWellFormed reports whether a submitted code has exactly the expected
// length and contains only ASCII digits. It does not touch any stored state,
// so it is safe to call before hitting the challenge store.
func IsWellFormed(code string, length int) bool {
	if len(code) != length {
		return false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}

	return true
}
