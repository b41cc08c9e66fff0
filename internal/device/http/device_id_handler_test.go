package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sporeid/internal/device/http/dto"
	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
	"github.com/allisson/sporeid/internal/deviceid/service"
)

func setupTestDeviceIDHandler(t *testing.T) *DeviceIDHandler {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewDeviceIDHandler(service.NewDefaultCodec(), "MASH", logger)
}

func TestDeviceIDHandler_GenerateHandler(t *testing.T) {
	t.Run("Success_DefaultBrand", func(t *testing.T) {
		handler := setupTestDeviceIDHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/device-ids", dto.GenerateDeviceIDRequest{
			Model:    "A",
			Version:  1,
			Location: "California",
			Year:     2025,
		})

		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DeviceIDResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, strings.HasPrefix(response.DeviceID, "MASH-A1-CAL25-"))
		assert.True(t, service.ValidateDeviceID(response.DeviceID))
		require.NotNil(t, response.Components)
		assert.Equal(t, "Alpha Prototype Build", response.Components.ModelName)
		assert.Len(t, response.Components.Code, idDomain.DefaultCodeLength+1)
	})

	t.Run("Success_UnknownModelFallsBack", func(t *testing.T) {
		handler := setupTestDeviceIDHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/device-ids", dto.GenerateDeviceIDRequest{
			Brand:    "spor",
			Model:    "X",
			Version:  2,
			Location: "nyc",
			Year:     2026,
		})

		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.DeviceIDResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, strings.HasPrefix(response.DeviceID, "SPOR-A2-NYC26-"))
	})

	t.Run("Success_PermissiveInput", func(t *testing.T) {
		tests := []struct {
			name     string
			request  dto.GenerateDeviceIDRequest
			expected string
		}{
			{"missing location", dto.GenerateDeviceIDRequest{Model: "A", Version: 1, Year: 2025}, "MASH-A1-25-"},
			{"short location", dto.GenerateDeviceIDRequest{Model: "B", Version: 1, Location: "ny", Year: 2025}, "MASH-B1-NY25-"},
			{"multi character model", dto.GenerateDeviceIDRequest{Model: "AB", Version: 3, Location: "CAL", Year: 2025}, "MASH-A3-CAL25-"},
			{"empty body fields", dto.GenerateDeviceIDRequest{}, "MASH-A0-00-"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler := setupTestDeviceIDHandler(t)

				c, w := createTestContext(http.MethodPost, "/v1/device-ids", tt.request)

				handler.GenerateHandler(c)

				assert.Equal(t, http.StatusOK, w.Code)

				var response dto.DeviceIDResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.True(t, strings.HasPrefix(response.DeviceID, tt.expected), response.DeviceID)
			})
		}
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler := setupTestDeviceIDHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/device-ids", nil)
		c.Request.Body = io.NopCloser(strings.NewReader("{not json"))

		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeviceIDHandler_ParseHandler(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		expectedValid bool
		expectedError string
	}{
		{"valid", "MASH-A1-CAL25-000000", true, ""},
		{"checksum mismatch", "MASH-A1-CAL25-000001", false, ""},
		{"too few segments", "MASH-A1-CAL25", false, idDomain.ParseErrorSegmentCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupTestDeviceIDHandler(t)

			c, w := createTestContext(http.MethodGet, "/v1/device-ids/"+tt.id, nil)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}

			handler.ParseHandler(c)

			assert.Equal(t, http.StatusOK, w.Code)

			var components idDomain.Components
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &components))
			assert.Equal(t, tt.id, components.DeviceID)
			assert.Equal(t, tt.expectedValid, components.ValidChecksum)
			assert.Equal(t, tt.expectedError, components.Error)
		})
	}
}

func TestDeviceIDHandler_ValidateHandler(t *testing.T) {
	t.Run("Success_Valid", func(t *testing.T) {
		handler := setupTestDeviceIDHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/device-ids/validate",
			dto.ValidateDeviceIDRequest{DeviceID: "MASH-A1-CAL25-000000"})

		handler.ValidateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"valid":true}`, w.Body.String())
	})

	t.Run("Success_Invalid", func(t *testing.T) {
		handler := setupTestDeviceIDHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/device-ids/validate",
			dto.ValidateDeviceIDRequest{DeviceID: "not-a-device"})

		handler.ValidateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"valid":false}`, w.Body.String())
	})

	t.Run("Error_MissingDeviceID", func(t *testing.T) {
		handler := setupTestDeviceIDHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/device-ids/validate", dto.ValidateDeviceIDRequest{})

		handler.ValidateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
