package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

// FirmwareHandler serves OTA firmware releases.
type FirmwareHandler struct {
	firmware *service.FirmwareService
}

// NewFirmwareHandler creates a new firmware handler
func NewFirmwareHandler(firmware *service.FirmwareService) *FirmwareHandler {
	return &FirmwareHandler{firmware: firmware}
}

// List returns firmware releases, newest first
// @Summary List firmware
// @Tags Firmware
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Firmware
// @Router /firmware [get]
func (h *FirmwareHandler) List(c *gin.Context) {
	list, err := h.firmware.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// Create registers a firmware release
// @Summary Register firmware
// @Tags Firmware
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param firmware body model.CreateFirmwareRequest true "Release"
// @Success 201 {object} model.Firmware
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /firmware [post]
func (h *FirmwareHandler) Create(c *gin.Context) {
	var req model.CreateFirmwareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fw, err := h.firmware.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fw)
}
