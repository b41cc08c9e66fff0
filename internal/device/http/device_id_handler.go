// Package http provides HTTP handlers for device identifiers and the device registry.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/sporeid/internal/device/http/dto"
	"github.com/allisson/sporeid/internal/deviceid/service"
	"github.com/allisson/sporeid/internal/httputil"
	customValidation "github.com/allisson/sporeid/internal/validation"
)

// DeviceIDHandler exposes the identifier codec without touching the registry.
type DeviceIDHandler struct {
	codec        *service.Codec
	defaultBrand string
	logger       *slog.Logger
}

// NewDeviceIDHandler creates a handler that builds identifiers with codec, using
// defaultBrand when a request omits the brand.
func NewDeviceIDHandler(codec *service.Codec, defaultBrand string, logger *slog.Logger) *DeviceIDHandler {
	return &DeviceIDHandler{
		codec:        codec,
		defaultBrand: defaultBrand,
		logger:       logger,
	}
}

// GenerateHandler builds a fresh identifier. Nothing is persisted.
// POST /v1/device-ids
// Returns 200 OK with the identifier and its components.
func (h *DeviceIDHandler) GenerateHandler(c *gin.Context) {
	var req dto.GenerateDeviceIDRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	brand := req.Brand
	if strings.TrimSpace(brand) == "" {
		brand = h.defaultBrand
	}

	deviceID, components, err := h.codec.Build(service.BuildInput{
		Brand:    brand,
		Model:    req.Model,
		Version:  req.Version,
		Location: req.Location,
		Year:     req.Year,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DeviceIDResponse{
		DeviceID:   deviceID,
		Components: components,
	})
}

// ParseHandler breaks an identifier into its components.
// GET /v1/device-ids/:id
// Always returns 200 OK; structural problems and checksum failures are reported in the body.
func (h *DeviceIDHandler) ParseHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.codec.Parse(c.Param("id")))
}

// ValidateHandler reports whether an identifier is well formed with a valid checksum.
// POST /v1/device-ids/validate
// Returns 200 OK with {"valid": bool}.
func (h *DeviceIDHandler) ValidateHandler(c *gin.Context) {
	var req dto.ValidateDeviceIDRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ValidateDeviceIDResponse{Valid: h.codec.IsValid(req.DeviceID)})
}
