package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetTaxLedger(c *gin.Context) {
	ledger, err := s.taxLedgerSvc.Build(c.Request.Context(), c.Param("period"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ledger})
}

func (s *Server) ExportTaxLedger(c *gin.Context) {
	period := c.Param("period")
	reader, err := s.taxLedgerSvc.ExportCSV(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "iva-ventas-"+period+".csv"))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
