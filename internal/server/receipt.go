package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	receiptdomain "github.com/viatica/backoffice/internal/receipt/domain"
)

func (s *Server) ListReceipts(c *gin.Context) {
	resp, err := s.receiptSvc.List(c.Request.Context(), receiptdomain.ListReceiptRequest{
		PageToken: strings.TrimSpace(c.Query("page_token")),
		PageSize:  queryInt(c, "page_size"),
		BookingID: strings.TrimSpace(c.Query("booking_id")),
		ClientID:  strings.TrimSpace(c.Query("client_id")),
		From:      queryTime(c, "from"),
		To:        queryTime(c, "to"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Receipts, "page_info": resp.PageInfo})
}

func (s *Server) CreateReceipt(c *gin.Context) {
	var req receiptdomain.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.receiptSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) GetReceiptByID(c *gin.Context) {
	item, err := s.receiptSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) RenderReceipt(c *gin.Context) {
	reader, err := s.receiptSvc.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
