// Package integration provides end-to-end tests for the device registry API.
// Every flow runs against SQLite, and against PostgreSQL and MySQL when reachable.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sporeid/internal/app"
	"github.com/allisson/sporeid/internal/config"
	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	"github.com/allisson/sporeid/internal/device/http/dto"
	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
	"github.com/allisson/sporeid/internal/deviceid/service"
	"github.com/allisson/sporeid/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	dbDriver  string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// setupIntegrationTest migrates a database for dbDriver and serves the full router.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	switch dbDriver {
	case "postgres":
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	case "mysql":
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	default:
		db, dsn = testutil.SetupSQLiteFileDB(t)
	}

	cfg := &config.Config{
		DBDriver:                   dbDriver,
		DBConnectionString:         dsn,
		DBMaxOpenConnections:       5,
		DBMaxIdleConnections:       2,
		DBConnMaxLifetime:          time.Hour,
		ServerHost:                 "localhost",
		ServerPort:                 8080,
		LogLevel:                   "error",
		DeviceBrand:                "MASH",
		DeviceCodeLength:           idDomain.DefaultCodeLength,
		DeviceProvisionMaxAttempts: 3,
		DeviceBatchConcurrency:     4,
		DeviceBatchMaxSize:         100,
	}
	if dbDriver == "sqlite3" {
		cfg.DBMaxOpenConnections = 1
		cfg.DBMaxIdleConnections = 1
	}

	container := app.NewContainer(cfg)

	httpSrv, err := container.HTTPServer(t.Context())
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	return &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(handler),
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest cleans up all resources.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	if ctx.server != nil {
		ctx.server.Close()
	}

	if ctx.container != nil {
		if err := ctx.container.Shutdown(context.Background()); err != nil {
			t.Logf("Warning: container shutdown error: %v", err)
		}
	}

	if ctx.db != nil {
		testutil.TeardownDB(t, ctx.db)
	}
}

var databaseCases = []struct {
	name     string
	dbDriver string
}{
	{"SQLite", "sqlite3"},
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

// TestIntegration_Health_BasicChecks validates the health and readiness endpoints.
func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range databaseCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), `"healthy"`)

			resp, body = ctx.makeRequest(t, http.MethodGet, "/ready", nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), `"ready"`)
		})
	}
}

// TestIntegration_DeviceIDs_Stateless exercises the offline identifier endpoints.
func TestIntegration_DeviceIDs_Stateless(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := setupIntegrationTest(t, "sqlite3")
	defer teardownIntegrationTest(t, ctx)

	var generated dto.DeviceIDResponse

	t.Run("01_Generate", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/device-ids", map[string]any{
			"model":    "r",
			"version":  12,
			"location": "ber",
			"year":     2031,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		require.NoError(t, json.Unmarshal(body, &generated))

		assert.True(t, strings.HasPrefix(generated.DeviceID, "MASH-R12-BER31-"), generated.DeviceID)
		assert.Equal(t, "Release Build", generated.Components.ModelName)
		assert.True(t, service.ValidateDeviceID(generated.DeviceID))
	})

	t.Run("02_ParseRoundTrip", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/device-ids/"+generated.DeviceID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var parsed idDomain.Components
		require.NoError(t, json.Unmarshal(body, &parsed))
		assert.Equal(t, *generated.Components, parsed)
	})

	t.Run("03_ValidateTampered", func(t *testing.T) {
		tampered := generated.DeviceID[:len(generated.DeviceID)-1] + flipSymbol(generated.DeviceID)

		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/device-ids/validate", map[string]string{
			"device_id": tampered,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"valid":false}`, string(body))
	})
}

// TestIntegration_Devices_CompleteFlow walks a device through its whole lifecycle.
func TestIntegration_Devices_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range databaseCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var device dto.DeviceResponse

			t.Run("01_Provision", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/devices", map[string]any{
					"model":    "A",
					"version":  1,
					"location": "CAL",
					"year":     2025,
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
				require.NoError(t, json.Unmarshal(body, &device))

				assert.Equal(t, "MASH", device.Brand)
				assert.Equal(t, string(deviceDomain.StatusActive), device.Status)
				assert.True(t, service.ValidateDeviceID(device.DeviceID))
			})

			t.Run("02_ProvisionInvalidModel", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/devices", map[string]any{
					"model":    "Z",
					"version":  1,
					"location": "CAL",
					"year":     2025,
				})
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			})

			t.Run("03_Get", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/devices/"+device.DeviceID, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var fetched dto.DeviceResponse
				require.NoError(t, json.Unmarshal(body, &fetched))
				assert.Equal(t, device.ID, fetched.ID)
				assert.Nil(t, fetched.LastSeenAt)
			})

			t.Run("04_Announce", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/devices/"+device.DeviceID+"/announce", nil)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var announced dto.DeviceResponse
				require.NoError(t, json.Unmarshal(body, &announced))
				assert.NotNil(t, announced.LastSeenAt)
			})

			t.Run("05_AnnounceChecksumMismatch", func(t *testing.T) {
				tampered := device.DeviceID[:len(device.DeviceID)-1] + flipSymbol(device.DeviceID)
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/devices/"+tampered+"/announce", nil)
				assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			})

			t.Run("06_ProvisionBatch", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/devices/batch", map[string]any{
					"model":    "B",
					"version":  2,
					"location": "LAB",
					"year":     2025,
					"count":    10,
				})
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

				var batch dto.ListDevicesResponse
				require.NoError(t, json.Unmarshal(body, &batch))
				require.Len(t, batch.Data, 10)

				seen := make(map[string]struct{}, len(batch.Data))
				for _, d := range batch.Data {
					assert.True(t, strings.HasPrefix(d.DeviceID, "MASH-B2-LAB25-"))
					seen[d.DeviceID] = struct{}{}
				}
				assert.Len(t, seen, 10)
			})

			t.Run("07_List", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/devices?offset=0&limit=5", nil)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var page dto.ListDevicesResponse
				require.NoError(t, json.Unmarshal(body, &page))
				assert.Len(t, page.Data, 5)
			})

			t.Run("08_Revoke", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodDelete, "/v1/devices/"+device.DeviceID, nil)
				require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

				var revoked dto.DeviceResponse
				require.NoError(t, json.Unmarshal(body, &revoked))
				assert.Equal(t, string(deviceDomain.StatusRevoked), revoked.Status)
				assert.NotNil(t, revoked.RevokedAt)

				// Revoking again is idempotent.
				resp, _ = ctx.makeRequest(t, http.MethodDelete, "/v1/devices/"+device.DeviceID, nil)
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			})

			t.Run("09_AnnounceRevoked", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodPost, "/v1/devices/"+device.DeviceID+"/announce", nil)
				assert.Equal(t, http.StatusGone, resp.StatusCode)
			})

			t.Run("10_GetUnknown", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/devices/MASH-A1-CAL25-000000", nil)
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})
		})
	}
}

// flipSymbol returns a hex symbol different from the last character of deviceID.
func flipSymbol(deviceID string) string {
	if strings.HasSuffix(deviceID, "0") {
		return "1"
	}
	return "0"
}
