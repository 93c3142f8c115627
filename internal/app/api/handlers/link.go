package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/playgate/internal/app/service/subscription"
	"github.com/fatflowers/playgate/internal/platform/identity"
	"github.com/fatflowers/playgate/pkg/logctx"
)

type linkSubscriptionReq struct {
	PurchaseToken string `json:"purchaseToken"`
}

type linkSubscriptionResp struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// @Summary      Link a purchase token to the authenticated user
// @Description  Associates an anonymously-created purchase token with the account presented in the bearer token. Relinking the same pair is a no-op.
// @Tags         Entitlement
// @Accept       json
// @Produce      json
// @Param        request        body    handlers.linkSubscriptionReq  true  "Purchase token to link"
// @Param        Authorization  header  string                        true  "Bearer ID token"
// @Success      200  {object}  handlers.linkSubscriptionResp
// @Failure      400  {object}  handlers.linkSubscriptionResp
// @Failure      401  {object}  handlers.linkSubscriptionResp
// @Router       /link_subscription [post]
func ApiLinkSubscription(verifier TokenVerifier, store subscription.Manager, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, base)

		var req linkSubscriptionReq
		if err := c.ShouldBindJSON(&req); err != nil || req.PurchaseToken == "" {
			c.JSON(http.StatusBadRequest, linkSubscriptionResp{Success: false, Message: "missing purchaseToken"})
			return
		}

		idToken, err := bearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, linkSubscriptionResp{Success: false, Message: "unauthorized"})
			return
		}
		userID, err := verifier.Verify(c.Request.Context(), idToken)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, linkSubscriptionResp{Success: false, Message: "unauthorized"})
				return
			}
			log.Errorw("link_subscription_verify_error", "err", err.Error())
			c.JSON(http.StatusInternalServerError, linkSubscriptionResp{Success: false, Message: "internal error"})
			return
		}

		if err := store.LinkUser(c.Request.Context(), req.PurchaseToken, userID); err != nil {
			log.Errorw("link_subscription_store_error", "err", err.Error(), "user_id", userID)
			c.JSON(http.StatusInternalServerError, linkSubscriptionResp{Success: false, Message: "internal error"})
			return
		}

		log.Infow("subscription_link_ok", "user_id", userID)
		c.JSON(http.StatusOK, linkSubscriptionResp{Success: true})
	}
}
