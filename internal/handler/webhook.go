package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/model"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

// WebhookHandler manages notification webhooks.
type WebhookHandler struct {
	webhooks *service.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhooks *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// RegisterRoutes registers the webhook routes on r.
func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	webhooks := r.Group("/webhooks")
	{
		webhooks.GET("", h.List)
		webhooks.POST("", h.Create)
		webhooks.GET("/events", h.Events)
		webhooks.DELETE("/:id", h.Delete)
	}
}

// List returns the user's webhooks
// @Summary List webhooks
// @Tags Webhooks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Webhook
// @Router /webhooks [get]
func (h *WebhookHandler) List(c *gin.Context) {
	list, err := h.webhooks.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// Create registers a webhook
// @Summary Create webhook
// @Description Notifications are POSTed as JSON signed with X-Webhook-Signature
// @Tags Webhooks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param webhook body model.CreateWebhookRequest true "Webhook"
// @Success 201 {object} model.Webhook
// @Failure 400 {object} map[string]string
// @Router /webhooks [post]
func (h *WebhookHandler) Create(c *gin.Context) {
	var req model.CreateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	webhook, err := h.webhooks.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, webhook)
}

// Delete removes a webhook
// @Summary Delete webhook
// @Tags Webhooks
// @Security BearerAuth
// @Param id path int true "Webhook ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /webhooks/{id} [delete]
func (h *WebhookHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.webhooks.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Events lists the subscribable event names
// @Summary Webhook event types
// @Tags Webhooks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Router /webhooks/events [get]
func (h *WebhookHandler) Events(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": service.WebhookEvents()})
}
