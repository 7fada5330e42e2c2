package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/viatica/backoffice/internal/billing/domain"
)

// PreviewBreakdown runs the billing engine without persisting anything. The
// form calls it on every edit, so it must stay side-effect free.
func (s *Server) PreviewBreakdown(c *gin.Context) {
	var req billingdomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := s.billingSvc.Compute(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": res})
}
