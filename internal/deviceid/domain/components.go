package domain

const (
	// Separator joins the four identifier segments.
	Separator = "-"

	// SegmentCount is the number of dash-separated segments in a well-formed identifier.
	SegmentCount = 4

	// LocationLength is the fixed width of the location code inside the third segment.
	LocationLength = 3

	// DefaultCodeLength is the number of random payload symbols before the checksum symbol.
	DefaultCodeLength = 5
)

// Components is the breakdown of a device identifier.
//
// Structural problems are reported through Error rather than as a Go error so that
// callers can tell a malformed identifier (Error set) apart from a corrupted payload
// (Error empty, ValidChecksum false).
type Components struct {
	DeviceID      string `json:"device_id"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	ModelName     string `json:"model_name"`
	Version       string `json:"version"`
	Location      string `json:"location"`
	Year          string `json:"year"`
	Code          string `json:"code"`
	ValidChecksum bool   `json:"valid_checksum"`
	Error         string `json:"error,omitempty"`
}

// HasError reports whether the identifier failed structural parsing.
func (c *Components) HasError() bool {
	return c.Error != ""
}

// IsValid reports whether the identifier is well formed and its checksum matches.
func (c *Components) IsValid() bool {
	return !c.HasError() && c.ValidChecksum
}
