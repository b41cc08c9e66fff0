// Package domain defines the device identifier value types: model tags and the
// component breakdown produced when an identifier is built or parsed.
package domain

// Model is the single-character hardware build tag embedded in a device identifier.
type Model string

const (
	ModelAlpha   Model = "A"
	ModelBeta    Model = "B"
	ModelRelease Model = "R"

	// DefaultModel replaces any unrecognized tag during identifier generation.
	DefaultModel = ModelAlpha

	// UnknownModelName is reported by the parser for tags outside the known set.
	UnknownModelName = "Unknown"
)

var modelNames = map[Model]string{
	ModelAlpha:   "Alpha Prototype Build",
	ModelBeta:    "Beta Test Build",
	ModelRelease: "Release Build",
}

// Name returns the human-readable model name, or UnknownModelName.
func (m Model) Name() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return UnknownModelName
}

// IsKnown reports whether the tag belongs to the enumerated model set.
func (m Model) IsKnown() bool {
	_, ok := modelNames[m]
	return ok
}

// String returns the string representation of the model tag.
func (m Model) String() string {
	return string(m)
}

// Models returns the known model tags in display order.
func Models() []Model {
	return []Model{ModelAlpha, ModelBeta, ModelRelease}
}
