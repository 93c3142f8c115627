package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/playgate/internal/app/service/subscription"
	"github.com/fatflowers/playgate/internal/platform/identity"
	"github.com/fatflowers/playgate/pkg/logctx"
)

type checkPremiumResp struct {
	Premium    bool   `json:"premium"`
	ExpiryTime string `json:"expiryTime,omitempty"`
	Message    string `json:"message,omitempty"`
}

// @Summary      Check premium entitlement
// @Description  Returns whether the authenticated user holds an active, non-expired subscription for the given purchase token.
// @Tags         Entitlement
// @Produce      json
// @Param        token          query   string  true  "Purchase token"
// @Param        Authorization  header  string  true  "Bearer ID token"
// @Success      200  {object}  handlers.checkPremiumResp
// @Failure      400  {object}  handlers.checkPremiumResp
// @Failure      401  {object}  handlers.checkPremiumResp
// @Router       /check_premium [get]
func ApiCheckPremium(verifier TokenVerifier, store subscription.Manager, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, base)

		purchaseToken := c.Query("token")
		if purchaseToken == "" {
			c.JSON(http.StatusBadRequest, checkPremiumResp{Premium: false, Message: "missing token"})
			return
		}

		idToken, err := bearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, checkPremiumResp{Premium: false, Message: "unauthorized"})
			return
		}
		userID, err := verifier.Verify(c.Request.Context(), idToken)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, checkPremiumResp{Premium: false, Message: "unauthorized"})
				return
			}
			log.Errorw("check_premium_verify_error", "err", err.Error())
			c.JSON(http.StatusInternalServerError, checkPremiumResp{Premium: false, Message: "internal error"})
			return
		}

		rec, err := store.FindEntitled(c.Request.Context(), purchaseToken, userID, time.Now())
		if err != nil {
			log.Errorw("check_premium_store_error", "err", err.Error())
			c.JSON(http.StatusInternalServerError, checkPremiumResp{Premium: false, Message: "internal error"})
			return
		}
		if rec == nil {
			c.JSON(http.StatusOK, checkPremiumResp{Premium: false})
			return
		}
		c.JSON(http.StatusOK, checkPremiumResp{
			Premium:    true,
			ExpiryTime: rec.ExpiryTime().UTC().Format(time.RFC3339),
		})
	}
}
