package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
)

func year(y uint) *uint {
	return &y
}

func TestValidateDeviceIDRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ValidateDeviceIDRequest{DeviceID: "anything"}).Validate())
	assert.Error(t, (&ValidateDeviceIDRequest{}).Validate())
}

func TestProvisionDeviceRequest_Validate(t *testing.T) {
	valid := ProvisionDeviceRequest{Model: "B", Version: 2, Location: "NYC", Year: year(2025)}

	tests := []struct {
		name    string
		mutate  func(r *ProvisionDeviceRequest)
		wantErr bool
	}{
		{"valid", func(r *ProvisionDeviceRequest) {}, false},
		{"valid with brand", func(r *ProvisionDeviceRequest) { r.Brand = "SPOR" }, false},
		{"brand with dash", func(r *ProvisionDeviceRequest) { r.Brand = "MA-SH" }, true},
		{"brand with whitespace", func(r *ProvisionDeviceRequest) { r.Brand = " MASH" }, true},
		{"unknown model", func(r *ProvisionDeviceRequest) { r.Model = "Z" }, true},
		{"missing model", func(r *ProvisionDeviceRequest) { r.Model = "" }, true},
		{"short location", func(r *ProvisionDeviceRequest) { r.Location = "NY" }, true},
		{"long location", func(r *ProvisionDeviceRequest) { r.Location = "NewYork" }, true},
		{"location with dash", func(r *ProvisionDeviceRequest) { r.Location = "N-Y" }, true},
		{"year zero", func(r *ProvisionDeviceRequest) { r.Year = year(0) }, false},
		{"missing year", func(r *ProvisionDeviceRequest) { r.Year = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProvisionDeviceRequest_ToInput(t *testing.T) {
	req := ProvisionDeviceRequest{Brand: "SPOR", Model: "R", Version: 3, Location: "LON", Year: year(2026)}

	assert.Equal(t, &deviceDomain.ProvisionInput{
		Brand:    "SPOR",
		Model:    "R",
		Version:  3,
		Location: "LON",
		Year:     2026,
	}, req.ToInput())

	req.Year = year(0)
	assert.Equal(t, uint(0), req.ToInput().Year)
}

func TestProvisionBatchRequest_Validate(t *testing.T) {
	base := ProvisionDeviceRequest{Model: "A", Version: 1, Location: "CAL", Year: year(2025)}

	assert.NoError(t, (&ProvisionBatchRequest{ProvisionDeviceRequest: base, Count: 10}).Validate())
	assert.Error(t, (&ProvisionBatchRequest{ProvisionDeviceRequest: base}).Validate())
	assert.Error(t, (&ProvisionBatchRequest{ProvisionDeviceRequest: base, Count: -2}).Validate())
	assert.Error(t, (&ProvisionBatchRequest{Count: 10}).Validate())
}

func TestAnnounceDeviceRequest_ToInput(t *testing.T) {
	t.Run("without timestamp", func(t *testing.T) {
		input := (&AnnounceDeviceRequest{}).ToInput("MASH-A1-CAL25-000000")
		assert.Equal(t, "MASH-A1-CAL25-000000", input.DeviceID)
		assert.True(t, input.SeenAt.IsZero())
		assert.Equal(t, deviceDomain.SourceHTTP, input.Source)
	})

	t.Run("with timestamp", func(t *testing.T) {
		ts := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
		input := (&AnnounceDeviceRequest{Timestamp: &ts}).ToInput("MASH-A1-CAL25-000000")
		assert.Equal(t, ts, input.SeenAt)
	})
}
