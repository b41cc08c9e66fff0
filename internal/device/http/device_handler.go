package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/sporeid/internal/device/http/dto"
	deviceUseCase "github.com/allisson/sporeid/internal/device/usecase"
	"github.com/allisson/sporeid/internal/httputil"
	customValidation "github.com/allisson/sporeid/internal/validation"
)

// DeviceHandler handles HTTP requests for the device registry.
type DeviceHandler struct {
	deviceUseCase deviceUseCase.DeviceUseCase
	logger        *slog.Logger
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(useCase deviceUseCase.DeviceUseCase, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceUseCase: useCase,
		logger:        logger,
	}
}

// ProvisionHandler registers a new device with a freshly generated identifier.
// POST /v1/devices
// Returns 201 Created with the device.
func (h *DeviceHandler) ProvisionHandler(c *gin.Context) {
	var req dto.ProvisionDeviceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	device, err := h.deviceUseCase.Provision(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapDeviceToResponse(device))
}

// ProvisionBatchHandler registers count devices in a single transaction.
// POST /v1/devices/batch
// Returns 201 Created with the devices.
func (h *DeviceHandler) ProvisionBatchHandler(c *gin.Context) {
	var req dto.ProvisionBatchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	devices, err := h.deviceUseCase.ProvisionBatch(c.Request.Context(), req.ToInput(), req.Count)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapDevicesToListResponse(devices))
}

// GetHandler loads a device by its identifier.
// GET /v1/devices/:id
// Returns 200 OK, 404 when unknown and 422 when the identifier is invalid.
func (h *DeviceHandler) GetHandler(c *gin.Context) {
	device, err := h.deviceUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeviceToResponse(device))
}

// ListHandler retrieves devices with pagination support.
// GET /v1/devices?offset=0&limit=50
// Returns 200 OK with a page of devices, newest first.
func (h *DeviceHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	devices, err := h.deviceUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDevicesToListResponse(devices))
}

// RevokeHandler permanently retires a device.
// DELETE /v1/devices/:id
// Returns 200 OK with the revoked device.
func (h *DeviceHandler) RevokeHandler(c *gin.Context) {
	device, err := h.deviceUseCase.Revoke(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeviceToResponse(device))
}

// AnnounceHandler records a device reporting itself online. The body is optional.
// POST /v1/devices/:id/announce
// Returns 200 OK, 404 for unknown devices, 410 for revoked ones and 422 for invalid identifiers.
func (h *DeviceHandler) AnnounceHandler(c *gin.Context) {
	var req dto.AnnounceDeviceRequest

	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	device, err := h.deviceUseCase.Announce(c.Request.Context(), req.ToInput(c.Param("id")))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeviceToResponse(device))
}
