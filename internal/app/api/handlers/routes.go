package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/playgate/internal/app/service/reconcile"
	"github.com/fatflowers/playgate/internal/app/service/subscription"
)

// RegisterEntitlementRoutes mounts the client-facing endpoints.
func RegisterEntitlementRoutes(r gin.IRouter, verifier TokenVerifier, store subscription.Manager, log *zap.SugaredLogger) {
	r.GET("/check_premium", ApiCheckPremium(verifier, store, log))
	r.POST("/link_subscription", ApiLinkSubscription(verifier, store, log))
}

// RegisterWebhookRoutes mounts the push-delivery endpoint and its probe.
func RegisterWebhookRoutes(r gin.IRouter, h *reconcile.Handler) {
	r.POST("/play_webhook", ApiPlayWebhook(h))
	r.GET("/play_webhook", ApiPlayWebhookStatus())
}
