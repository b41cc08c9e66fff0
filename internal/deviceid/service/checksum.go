// Package service implements the device identifier codec: a Luhn checksum generalized
// to an arbitrary symbol alphabet, a random code generator protected by that checksum,
// and the builder/parser for the dash-separated identifier format.
package service

import (
	"strings"

	"github.com/allisson/sporeid/internal/deviceid/domain"
)

// Alphabet is an ordered set of distinct ASCII symbols. A symbol's value is its
// position, and the alphabet length is the checksum radix.
type Alphabet string

// DefaultAlphabet is the uppercase hexadecimal alphabet (radix 16).
const DefaultAlphabet Alphabet = "0123456789ABCDEF"

// Validate checks that the alphabet has at least two distinct ASCII symbols.
func (a Alphabet) Validate() error {
	if len(a) < 2 {
		return domain.ErrInvalidAlphabet
	}
	var seen [128]bool
	for i := 0; i < len(a); i++ {
		c := a[i]
		if c >= 128 || seen[c] {
			return domain.ErrInvalidAlphabet
		}
		seen[c] = true
	}
	return nil
}

// Radix returns the number of symbols in the alphabet.
func (a Alphabet) Radix() int {
	return len(a)
}

// Contains reports whether every byte of s is a symbol of the alphabet.
func (a Alphabet) Contains(s string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(string(a), s[i]) < 0 {
			return false
		}
	}
	return true
}

// Checksum computes the check symbol for data.
//
// Symbols are read right to left: the last symbol of data sits at position 0 and is
// added as is, position 1 is doubled, and so on alternately. A doubled value is
// reduced to the sum of its two base-N digits. The check symbol is the one whose
// value brings the total to a multiple of N. Empty data yields the first symbol.
func (a Alphabet) Checksum(data string) (byte, error) {
	n := a.Radix()
	if n < 2 {
		return 0, domain.ErrInvalidAlphabet
	}

	sum := 0
	for i := 0; i < len(data); i++ {
		value := strings.IndexByte(string(a), data[len(data)-1-i])
		if value < 0 {
			return 0, domain.ErrSymbolNotInAlphabet
		}

		if i%2 == 1 {
			doubled := value * 2
			value = doubled/n + doubled%n
		}

		sum += value
	}

	return a[(n-sum%n)%n], nil
}

// ValidateChecksum reports whether the last symbol of s is the check symbol of the
// preceding ones. Empty input or foreign symbols are reported as invalid.
func (a Alphabet) ValidateChecksum(s string) bool {
	if len(s) == 0 {
		return false
	}

	check, err := a.Checksum(s[:len(s)-1])
	if err != nil {
		return false
	}

	return s[len(s)-1] == check
}

// LuhnChecksum returns the check character for data over alphabet.
func LuhnChecksum(data string, alphabet Alphabet) (string, error) {
	check, err := alphabet.Checksum(data)
	if err != nil {
		return "", err
	}
	return string(check), nil
}

// ValidateLuhn reports whether dataWithChecksum ends in the correct check character.
func ValidateLuhn(dataWithChecksum string, alphabet Alphabet) bool {
	return alphabet.ValidateChecksum(dataWithChecksum)
}
