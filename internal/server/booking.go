package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/viatica/backoffice/internal/booking/domain"
)

func (s *Server) ListBookings(c *gin.Context) {
	resp, err := s.bookingSvc.List(c.Request.Context(), bookingdomain.ListBookingRequest{
		PageToken: strings.TrimSpace(c.Query("page_token")),
		PageSize:  queryInt(c, "page_size"),
		ClientID:  strings.TrimSpace(c.Query("client_id")),
		Status:    strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Bookings, "page_info": resp.PageInfo})
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req bookingdomain.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.bookingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) GetBookingByID(c *gin.Context) {
	item, err := s.bookingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateBookingStatus(c *gin.Context) {
	var req bookingdomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	item, err := s.bookingSvc.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) AddBookingService(c *gin.Context) {
	var req bookingdomain.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.bookingSvc.AddService(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateBookingService(c *gin.Context) {
	var req bookingdomain.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.bookingSvc.UpdateService(c.Request.Context(), c.Param("id"), c.Param("serviceId"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) RemoveBookingService(c *gin.Context) {
	if err := s.bookingSvc.RemoveService(c.Request.Context(), c.Param("id"), c.Param("serviceId")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
