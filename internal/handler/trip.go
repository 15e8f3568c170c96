package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

// TripHandler serves stored trips.
type TripHandler struct {
	trips *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips *service.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

// ListByDevice returns the trips of a device
// @Summary List device trips
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Success 200 {array} model.Trip
// @Failure 404 {object} map[string]string
// @Router /devices/{id}/trips [get]
func (h *TripHandler) ListByDevice(c *gin.Context) {
	trips, err := h.trips.ListByDevice(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

// Get returns one trip with its path
// @Summary Get trip
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} model.Trip
// @Failure 404 {object} map[string]string
// @Router /trips/{id} [get]
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.trips.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// Track returns the corrected trip path
// @Summary Get corrected trip track
// @Description Drops repeated samples and speed outliers, then simplifies with Douglas-Peucker
// @Tags Trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param max_points query int false "Simplify to at most this many samples"
// @Success 200 {object} service.TripTrack
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips/{id}/track [get]
func (h *TripHandler) Track(c *gin.Context) {
	maxPoints, err := strconv.Atoi(c.DefaultQuery("max_points", "0"))
	if err != nil || maxPoints < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_points"})
		return
	}

	track, err := h.trips.Track(c.Request.Context(), currentUser(c), c.Param("id"), maxPoints)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}
