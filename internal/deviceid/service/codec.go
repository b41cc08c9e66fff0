package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/allisson/sporeid/internal/deviceid/domain"
)

// BuildInput holds the raw fields of a device identifier before normalization.
type BuildInput struct {
	Brand    string
	Model    string
	Version  uint
	Location string
	Year     uint
}

// Codec builds and parses device identifiers of the form
// BRAND-<model><version>-<location><yy>-<code><check>, for example MASH-A1-CAL25-D5A91B.
//
// A Codec is immutable and safe for concurrent use as long as its entropy source is.
type Codec struct {
	alphabet   Alphabet
	generator  *CodeGenerator
	codeLength int
}

// NewCodec creates a codec that draws codeLength random symbols from alphabet using
// random as the entropy source (crypto/rand.Reader when nil).
func NewCodec(alphabet Alphabet, random io.Reader, codeLength int) (*Codec, error) {
	if codeLength < 1 {
		return nil, domain.ErrInvalidCodeLength
	}
	generator, err := NewCodeGenerator(alphabet, random)
	if err != nil {
		return nil, err
	}
	return &Codec{
		alphabet:   alphabet,
		generator:  generator,
		codeLength: codeLength,
	}, nil
}

// NewDefaultCodec returns a hexadecimal codec with a five symbol payload backed by crypto/rand.
func NewDefaultCodec() *Codec {
	codec, err := NewCodec(DefaultAlphabet, nil, domain.DefaultCodeLength)
	if err != nil {
		panic(err)
	}
	return codec
}

// Alphabet returns the codec's symbol alphabet.
func (c *Codec) Alphabet() Alphabet {
	return c.alphabet
}

// Normalize applies the permissive input rules used by Build: brand and location are
// trimmed and uppercased, the location is cut to three characters, an unknown model
// becomes the default model and the year keeps its last two digits.
func (c *Codec) Normalize(input BuildInput) BuildInput {
	model := domain.Model(strings.ToUpper(input.Model))
	if !model.IsKnown() {
		model = domain.DefaultModel
	}

	location := []rune(strings.TrimSpace(strings.ToUpper(input.Location)))
	if len(location) > domain.LocationLength {
		location = location[:domain.LocationLength]
	}

	return BuildInput{
		Brand:    strings.TrimSpace(strings.ToUpper(input.Brand)),
		Model:    model.String(),
		Version:  input.Version,
		Location: string(location),
		Year:     input.Year % 100,
	}
}

// CheckRoundTrip reports whether the normalized input would be recovered unchanged by
// Parse. Build itself accepts any input; callers that persist identifiers use this
// check to refuse values that fixed-offset parsing would misread.
func (c *Codec) CheckRoundTrip(input BuildInput) error {
	normalized := c.Normalize(input)

	switch {
	case normalized.Brand == "":
		return domain.ErrBrandEmpty
	case strings.Contains(normalized.Brand, domain.Separator):
		return domain.ErrBrandContainsSeparator
	case strings.Contains(normalized.Location, domain.Separator):
		return domain.ErrLocationContainsSeparator
	case utf8.RuneCountInString(normalized.Location) != domain.LocationLength:
		return domain.ErrLocationLength
	}

	return nil
}

// Build normalizes input, generates a checksum-protected code and assembles the
// identifier. Malformed fields are normalized, never rejected; the only error is a
// failing entropy source.
func (c *Codec) Build(input BuildInput) (string, *domain.Components, error) {
	normalized := c.Normalize(input)

	code, err := c.generator.Generate(c.codeLength)
	if err != nil {
		return "", nil, err
	}

	version := strconv.FormatUint(uint64(normalized.Version), 10)
	year := fmt.Sprintf("%02d", normalized.Year)

	deviceID := strings.Join([]string{
		normalized.Brand,
		normalized.Model + version,
		normalized.Location + year,
		code,
	}, domain.Separator)

	return deviceID, &domain.Components{
		DeviceID:      deviceID,
		Brand:         normalized.Brand,
		Model:         normalized.Model,
		ModelName:     domain.Model(normalized.Model).Name(),
		Version:       version,
		Location:      normalized.Location,
		Year:          year,
		Code:          code,
		ValidChecksum: true,
	}, nil
}

// Parse splits an identifier into its components using fixed offsets: the first
// character of segment two is the model and the rest the version; the first three
// characters of segment three are the location and the rest the year.
//
// Parse never fails. A structural problem is reported in Components.Error with
// ValidChecksum false; a checksum mismatch only clears ValidChecksum.
func (c *Codec) Parse(deviceID string) *domain.Components {
	components := &domain.Components{DeviceID: deviceID}

	parts := strings.Split(deviceID, domain.Separator)
	if len(parts) != domain.SegmentCount {
		components.Error = domain.ParseErrorSegmentCount
		return components
	}

	modelSegment := parts[1]
	if modelSegment == "" {
		components.Error = domain.ParseErrorModelSegment
		return components
	}

	modelEnd := runeOffset(modelSegment, 1)
	locationSegment := parts[2]
	split := runeOffset(locationSegment, domain.LocationLength)

	model := domain.Model(modelSegment[:modelEnd])
	components.Brand = parts[0]
	components.Model = model.String()
	components.ModelName = model.Name()
	components.Version = modelSegment[modelEnd:]
	components.Location = locationSegment[:split]
	components.Year = locationSegment[split:]
	components.Code = parts[3]
	components.ValidChecksum = c.alphabet.ValidateChecksum(parts[3])

	return components
}

// runeOffset returns the byte offset just past the first n characters of s, or len(s)
// when s is shorter. Invalid bytes count as one character each and are kept as-is.
func runeOffset(s string, n int) int {
	offset := 0
	for range n {
		if offset >= len(s) {
			break
		}
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return offset
}

// IsValid reports whether deviceID parses without structural error and carries a
// valid checksum. Provisioning and registration code must use this predicate to
// accept or reject identifiers.
func (c *Codec) IsValid(deviceID string) bool {
	return c.Parse(deviceID).IsValid()
}
