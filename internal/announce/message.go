// Package announce consumes device announcements published over MQTT and records them
// in the device registry.
package announce

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	apperrors "github.com/allisson/sporeid/internal/errors"
)

// Payload formats accepted on the announce topic.
const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// ErrInvalidPayload is returned when an announcement cannot be decoded.
var ErrInvalidPayload = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid announcement payload")

// Message is the body a device publishes when it comes online. Timestamp is RFC 3339
// and may be omitted.
type Message struct {
	DeviceID  string `json:"device_id"           cbor:"device_id"`
	Timestamp string `json:"timestamp,omitempty" cbor:"timestamp,omitempty"`
}

// ToInput converts the message to a domain announce input.
func (m *Message) ToInput() (*deviceDomain.AnnounceInput, error) {
	input := &deviceDomain.AnnounceInput{
		DeviceID: strings.TrimSpace(m.DeviceID),
		Source:   deviceDomain.SourceMQTT,
	}
	if m.Timestamp != "" {
		seenAt, err := time.Parse(time.RFC3339, m.Timestamp)
		if err != nil {
			return nil, apperrors.Wrapf(ErrInvalidPayload, "timestamp %q", m.Timestamp)
		}
		input.SeenAt = seenAt
	}
	return input, nil
}

// Decoder turns a raw MQTT payload into a Message.
type Decoder func(payload []byte) (*Message, error)

// NewDecoder returns the decoder for format ("json" or "cbor").
func NewDecoder(format string) (Decoder, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return decodeJSON, nil
	case FormatCBOR:
		return decodeCBOR, nil
	default:
		return nil, fmt.Errorf("unsupported announcement payload format: %s", format)
	}
}

func decodeJSON(payload []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, apperrors.Wrap(ErrInvalidPayload, err.Error())
	}
	return &msg, nil
}

func decodeCBOR(payload []byte) (*Message, error) {
	var msg Message
	if err := cbor.Unmarshal(payload, &msg); err != nil {
		return nil, apperrors.Wrap(ErrInvalidPayload, err.Error())
	}
	return &msg, nil
}
