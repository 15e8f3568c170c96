package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DeviceHandler handles device-related requests
type DeviceHandler struct {
	devices *service.DeviceService
	sheets  *service.DeviceSheetService
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(devices *service.DeviceService, sheets *service.DeviceSheetService) *DeviceHandler {
	return &DeviceHandler{devices: devices, sheets: sheets}
}

// List returns the user's devices
// @Summary List devices
// @Description Get the devices of the signed-in user, optionally filtered and paginated
// @Tags Devices
// @Produce json
// @Security BearerAuth
// @Param status query string false "Active, Stopped or Offline"
// @Param keyword query string false "Matches ID or name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size, 0 for all"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /devices [get]
func (h *DeviceHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	devices, total, err := h.devices.List(c.Request.Context(), currentUser(c), model.DeviceQuery{
		Status:   model.DeviceStatus(c.Query("status")),
		Keyword:  c.Query("keyword"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  devices,
		"total": total,
		"page":  page,
	})
}

// Get returns a single device
// @Summary Get device
// @Tags Devices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Success 200 {object} model.Device
// @Failure 404 {object} map[string]string
// @Router /devices/{id} [get]
func (h *DeviceHandler) Get(c *gin.Context) {
	device, err := h.devices.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// Create adds a device to the fleet
// @Summary Create device
// @Description Without a location the device is placed near San Francisco
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param device body model.CreateDeviceRequest true "Device data"
// @Success 201 {object} model.Device
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /devices [post]
func (h *DeviceHandler) Create(c *gin.Context) {
	var req model.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	device, err := h.devices.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, device)
}

// Delete removes a device
// @Summary Delete device
// @Tags Devices
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /devices/{id} [delete]
func (h *DeviceHandler) Delete(c *gin.Context) {
	if err := h.devices.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateLocation ingests one telemetry sample
// @Summary Report device location
// @Description Updates the last location and status, refreshes the shadow and runs geofence checks
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Param body body model.LocationUpdate true "Sample"
// @Success 200 {object} model.Device
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /devices/{id}/location [put]
func (h *DeviceHandler) UpdateLocation(c *gin.Context) {
	var req model.LocationUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	device, err := h.devices.UpdateLocation(c.Request.Context(), currentUser(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// GetShadow returns the last reported state cached for the device
// @Summary Get device shadow
// @Tags Devices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Success 200 {object} model.DeviceShadow
// @Failure 404 {object} map[string]string
// @Router /devices/{id}/shadow [get]
func (h *DeviceHandler) GetShadow(c *gin.Context) {
	shadow, err := h.devices.GetShadow(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if shadow == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no telemetry reported yet"})
		return
	}
	c.JSON(http.StatusOK, shadow)
}

// ImportTemplate downloads the import template
// @Summary Download import template
// @Tags Devices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /devices/import-template [get]
func (h *DeviceHandler) ImportTemplate(c *gin.Context) {
	buf, err := h.sheets.ImportTemplate()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="device_import_template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import creates devices from an uploaded spreadsheet
// @Summary Import devices
// @Tags Devices
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx file"
// @Success 200 {object} model.DeviceImportResult
// @Failure 400 {object} map[string]string
// @Router /devices/import [post]
func (h *DeviceHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload an .xlsx file"})
		return
	}

	result, err := h.sheets.Import(c.Request.Context(), currentUser(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportFleet downloads the fleet report
// @Summary Export fleet report
// @Description Devices and a per-device trip summary as xlsx
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /reports/export [get]
func (h *DeviceHandler) ExportFleet(c *gin.Context) {
	buf, err := h.sheets.ExportFleet(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("fleet_report_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
