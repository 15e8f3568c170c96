package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

// GeofenceHandler handles geofence requests
type GeofenceHandler struct {
	geofences *service.GeofenceService
}

// NewGeofenceHandler creates a new geofence handler
func NewGeofenceHandler(geofences *service.GeofenceService) *GeofenceHandler {
	return &GeofenceHandler{geofences: geofences}
}

// List returns geofences
// @Summary List geofences
// @Tags Geofences
// @Produce json
// @Security BearerAuth
// @Param device_id query string false "Only geofences of this device"
// @Success 200 {array} model.Geofence
// @Router /geofences [get]
func (h *GeofenceHandler) List(c *gin.Context) {
	geofences, err := h.geofences.List(c.Request.Context(), currentUser(c), c.Query("device_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": geofences})
}

// Get returns a geofence
// @Summary Get geofence
// @Tags Geofences
// @Produce json
// @Security BearerAuth
// @Param id path int true "Geofence ID"
// @Success 200 {object} model.Geofence
// @Failure 404 {object} map[string]string
// @Router /geofences/{id} [get]
func (h *GeofenceHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	geofence, err := h.geofences.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, geofence)
}

// Create creates a circular geofence for a device
// @Summary Create geofence
// @Description Center defaults to the device's last location, radius to 500 m
// @Tags Geofences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param geofence body model.CreateGeofenceRequest true "Geofence data"
// @Success 201 {object} model.Geofence
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /geofences [post]
func (h *GeofenceHandler) Create(c *gin.Context) {
	var req model.CreateGeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	geofence, err := h.geofences.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, geofence)
}

// Delete deletes a geofence
// @Summary Delete geofence
// @Tags Geofences
// @Security BearerAuth
// @Param id path int true "Geofence ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /geofences/{id} [delete]
func (h *GeofenceHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.geofences.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
