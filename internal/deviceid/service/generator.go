package service

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/allisson/sporeid/internal/deviceid/domain"
)

// CodeGenerator produces random codes drawn uniformly from an alphabet, each followed
// by its check symbol.
type CodeGenerator struct {
	alphabet Alphabet
	random   io.Reader
}

// NewCodeGenerator creates a generator over alphabet reading entropy from random.
// A nil random uses crypto/rand.Reader. Tests may pass a fixed byte sequence.
func NewCodeGenerator(alphabet Alphabet, random io.Reader) (*CodeGenerator, error) {
	if err := alphabet.Validate(); err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}
	return &CodeGenerator{alphabet: alphabet, random: random}, nil
}

// Generate returns length random symbols plus one check symbol.
func (g *CodeGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", domain.ErrInvalidCodeLength
	}

	code := make([]byte, length, length+1)
	for i := range code {
		symbol, err := g.randomSymbol()
		if err != nil {
			return "", err
		}
		code[i] = symbol
	}

	check, err := g.alphabet.Checksum(string(code))
	if err != nil {
		return "", err
	}

	return string(append(code, check)), nil
}

// randomSymbol draws one symbol by rejection sampling single bytes, so every symbol
// is equally likely for any radix up to 256.
func (g *CodeGenerator) randomSymbol() (byte, error) {
	n := g.alphabet.Radix()
	limit := 256 - 256%n

	var buf [1]byte
	for {
		if _, err := io.ReadFull(g.random, buf[:]); err != nil {
			return 0, fmt.Errorf("%w: %w", domain.ErrEntropySource, err)
		}
		if int(buf[0]) < limit {
			return g.alphabet[int(buf[0])%n], nil
		}
	}
}
