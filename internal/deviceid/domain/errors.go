package domain

import (
	"github.com/allisson/sporeid/internal/errors"
)

var (
	// ErrInvalidAlphabet indicates an alphabet with fewer than two symbols, duplicates or non-ASCII symbols.
	ErrInvalidAlphabet = errors.Wrap(errors.ErrInvalidInput, "invalid symbol alphabet")

	// ErrSymbolNotInAlphabet indicates checksum input containing a symbol outside the alphabet.
	ErrSymbolNotInAlphabet = errors.Wrap(errors.ErrInvalidInput, "symbol not in alphabet")

	// ErrInvalidCodeLength indicates a non-positive random code length.
	ErrInvalidCodeLength = errors.Wrap(errors.ErrInvalidInput, "code length must be at least 1")

	// ErrBrandContainsSeparator indicates a brand that would split into extra segments.
	ErrBrandContainsSeparator = errors.Wrap(errors.ErrInvalidInput, "brand must not contain '-'")

	// ErrBrandEmpty indicates a blank brand.
	ErrBrandEmpty = errors.Wrap(errors.ErrInvalidInput, "brand must not be empty")

	// ErrLocationLength indicates a location code that is not exactly three characters.
	ErrLocationLength = errors.Wrap(errors.ErrInvalidInput, "location must be exactly 3 characters")

	// ErrLocationContainsSeparator indicates a location that would split into extra segments.
	ErrLocationContainsSeparator = errors.Wrap(errors.ErrInvalidInput, "location must not contain '-'")

	// ErrEntropySource indicates the random source could not supply bytes.
	ErrEntropySource = errors.New("failed to read from entropy source")
)

// Parse failure messages stored in Components.Error.
const (
	ParseErrorSegmentCount = "invalid device id format: expected 4 dash-separated segments"
	ParseErrorModelSegment = "invalid device id format: model segment is empty"
)
