package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/playgate/internal/app/service/reconcile"
	"github.com/fatflowers/playgate/pkg/logctx"
)

type webhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// @Summary      Google Play webhook
// @Description  Handles real-time developer notifications delivered by push. Processing failures are acknowledged to stop redelivery; only a structurally missing payload is a client error.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body reconcile.PushMessage true "Push-delivery envelope"
// @Success      200  {object}  handlers.webhookAck
// @Failure      400  {object}  handlers.webhookAck
// @Router       /play_webhook [post]
func ApiPlayWebhook(h *reconcile.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, h.Logger)
		log.Infow("webhook_play_received")

		var msg reconcile.PushMessage
		if err := c.ShouldBindJSON(&msg); err != nil || msg.Message.Data == "" {
			// The delivery system distinguishes a malformed request from a
			// processing failure; this is the one path allowed to error.
			c.JSON(http.StatusBadRequest, webhookAck{Success: false, Message: "missing message data"})
			return
		}

		outcome := h.HandleNotification(c.Request.Context(), &msg)
		log.Infow("webhook_play_handled", "outcome", string(outcome))
		// Always acknowledge: redelivery of the same message cannot succeed
		// where this attempt failed, and re-notification is the retry path.
		c.JSON(http.StatusOK, webhookAck{Success: true})
	}
}

// @Summary      Webhook liveness probe
// @Tags         Webhook
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /play_webhook [get]
func ApiPlayWebhookStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "playgate",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
