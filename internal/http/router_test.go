package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sporeid/internal/config"
	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	deviceHTTP "github.com/allisson/sporeid/internal/device/http"
	"github.com/allisson/sporeid/internal/device/usecase/mocks"
	"github.com/allisson/sporeid/internal/deviceid/service"
	"github.com/allisson/sporeid/internal/metrics"
)

func testRouterConfig() *config.Config {
	return &config.Config{
		LogLevel:                "info",
		RateLimitEnabled:        false,
		RateLimitRequestsPerSec: 1,
		RateLimitBurst:          2,
		MetricsNamespace:        "sporeid_test",
	}
}

// setupFullRouter builds the production router around a mocked device use case.
func setupFullRouter(t *testing.T, cfg *config.Config) (http.Handler, *mocks.MockDeviceUseCase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockUseCase := &mocks.MockDeviceUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })

	provider, err := metrics.NewProvider(cfg.MetricsNamespace)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	server := NewServer(nil, "localhost", 0, logger)
	server.SetupRouter(
		t.Context(),
		cfg,
		deviceHTTP.NewDeviceIDHandler(service.NewDefaultCodec(), "MASH", logger),
		deviceHTTP.NewDeviceHandler(mockUseCase, logger),
		provider,
	)

	return server.GetHandler(), mockUseCase
}

func TestSetupRouter_DeviceIDRoutes(t *testing.T) {
	handler, _ := setupFullRouter(t, testRouterConfig())

	body, _ := json.Marshal(map[string]any{"model": "R", "version": 4, "location": "LON", "year": 2026})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/device-ids", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var generated struct {
		DeviceID string `json:"device_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))
	assert.True(t, service.ValidateDeviceID(generated.DeviceID))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/device-ids/"+generated.DeviceID, nil)
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid_checksum":true`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestSetupRouter_DeviceRoutes(t *testing.T) {
	handler, mockUseCase := setupFullRouter(t, testRouterConfig())

	mockUseCase.On("Get", mock.Anything, "MASH-A1-CAL25-000000").
		Return(nil, deviceDomain.ErrDeviceNotFound).Once()
	mockUseCase.On("Revoke", mock.Anything, "MASH-A1-CAL25-000000").
		Return(&deviceDomain.Device{DeviceID: "MASH-A1-CAL25-000000", Status: deviceDomain.StatusRevoked}, nil).
		Once()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/devices/MASH-A1-CAL25-000000", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/devices/MASH-A1-CAL25-000000", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"revoked"`)
}

func TestSetupRouter_RateLimit(t *testing.T) {
	cfg := testRouterConfig()
	cfg.RateLimitEnabled = true
	handler, _ := setupFullRouter(t, cfg)

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/device-ids/MASH-A1-CAL25-000000", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	// Health checks sit outside the limited group.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_PerIP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(RateLimitMiddleware(t.Context(), 0.001, 1, logger))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = ip + ":1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.2"))
}

func TestRateLimiterStore_EvictIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}

	first := store.getLimiter("10.0.0.1")
	assert.Same(t, first, store.getLimiter("10.0.0.1"))
	store.getLimiter("10.0.0.2")

	store.evictIdle(time.Now().Add(time.Minute))

	_, ok := store.limiters.Load("10.0.0.1")
	assert.False(t, ok)
	assert.NotSame(t, first, store.getLimiter("10.0.0.1"))
}

func TestReadinessHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("ready", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		dbMock.ExpectPing()

		server := NewServer(db, "localhost", 0, logger)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"database":"ok"}}`, w.Body.String())
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("ping fails", func(t *testing.T) {
		db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		dbMock.ExpectPing().WillReturnError(errors.New("connection reset"))

		server := NewServer(db, "localhost", 0, logger)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := createTestServer()
	assert.Error(t, server.Start(context.Background()))
}
