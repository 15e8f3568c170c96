package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/flow"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

const defaultReportTimeframe = "30d"

// AssistantHandler exposes the AI flows.
type AssistantHandler struct {
	assistant *service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// SOS raises an emergency alert
// @Summary Trigger SOS
// @Description Records an sos notification and has the assistant alert the emergency contacts by SMS, WhatsApp and email
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body flow.SOSInput true "Location and optional message"
// @Success 200 {object} service.SOSResult
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /assistant/sos [post]
func (h *AssistantHandler) SOS(c *gin.Context) {
	in, err := flow.Decode[flow.SOSInput](c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.assistant.SOS(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Report generates a device report
// @Summary Generate device report
// @Description Single-paragraph narrative; timeframe defaults to 30d
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body flow.ReportInput true "Device and timeframe"
// @Success 200 {object} flow.ReportOutput
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /assistant/report [post]
func (h *AssistantHandler) Report(c *gin.Context) {
	in, err := flow.Decode[flow.ReportInput](c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	if in.Timeframe == "" {
		in.Timeframe = defaultReportTimeframe
	}

	out, err := h.assistant.Report(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SuggestGeofences proposes geofences from a GPS history
// @Summary Suggest geofences
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body flow.GeofenceSuggestionInput true "GPS history"
// @Success 200 {object} flow.GeofenceSuggestionOutput
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /assistant/geofence-suggestions [post]
func (h *AssistantHandler) SuggestGeofences(c *gin.Context) {
	in, err := flow.Decode[flow.GeofenceSuggestionInput](c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.assistant.SuggestGeofences(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SuggestForDevice proposes geofences from the device's stored trips
// @Summary Suggest geofences for a device
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Success 200 {object} flow.GeofenceSuggestionOutput
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /devices/{id}/geofence-suggestions [post]
func (h *AssistantHandler) SuggestForDevice(c *gin.Context) {
	out, err := h.assistant.SuggestForDevice(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SummarizeTrip summarizes supplied GPS samples
// @Summary Summarize trip
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body flow.TripSummaryInput true "GPS samples"
// @Success 200 {object} flow.TripSummaryOutput
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /assistant/trip-summary [post]
func (h *AssistantHandler) SummarizeTrip(c *gin.Context) {
	in, err := flow.Decode[flow.TripSummaryInput](c.Request.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.assistant.SummarizeTrip(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SummarizeStoredTrip summarizes one of the user's trips
// @Summary Summarize stored trip
// @Tags Assistant
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} flow.TripSummaryOutput
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /trips/{id}/summary [post]
func (h *AssistantHandler) SummarizeStoredTrip(c *gin.Context) {
	out, err := h.assistant.SummarizeStoredTrip(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
