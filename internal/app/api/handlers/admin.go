package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/playgate/internal/app/service/subscription"
	"github.com/fatflowers/playgate/pkg/response"
)

// @Summary      List subscription records
// @Description  Paginated listing of mirrored subscription records with field filters, for ops tooling.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body subscription.ScanRecordsRequest true "Listing request"
// @Success      200  {object}  response.APIResponse[subscription.ScanRecordsResponse]
// @Router       /api/v1/admin/subscription/list [post]
func ApiListSubscriptionRecords(store subscription.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscription.ScanRecordsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := store.ScanRecords(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, store subscription.Manager) {
	r.POST("/subscription/list", ApiListSubscriptionRecords(store))
}
