package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/http/middleware"
	"github.com/you/studiosvc/internal/logging"
)

// SubmissionHandlers accepts bookings and contact inquiries from the
// public site and lets staff work through them.
type SubmissionHandlers struct {
	bookings  domain.BookingService
	inquiries domain.InquiryService
	log       logging.Logger
}

func NewSubmissionHandlers(bookings domain.BookingService, inquiries domain.InquiryService, log logging.Logger) *SubmissionHandlers {
	return &SubmissionHandlers{bookings: bookings, inquiries: inquiries, log: log.With("component", "submission_handlers")}
}

// StatusRequest changes the status of a booking or inquiry
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SubmitBooking handles the public booking form
func (h *SubmissionHandlers) SubmitBooking(c *gin.Context) {
	var req domain.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.RemoteIP = c.ClientIP()

	booking, err := h.bookings.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":      booking.ID,
			"status":  booking.Status,
			"message": "Booking received, we will be in touch shortly",
		},
	})
}

// SubmitInquiry handles the public contact form
func (h *SubmissionHandlers) SubmitInquiry(c *gin.Context) {
	var req domain.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.RemoteIP = c.ClientIP()

	inquiry, err := h.inquiries.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"id":      inquiry.ID,
			"message": "Message sent, thank you",
		},
	})
}

func (h *SubmissionHandlers) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings})
}

func (h *SubmissionHandlers) UpdateBookingStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := h.bookings.UpdateStatus(c.Request.Context(), middleware.PrincipalFrom(c), id, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": booking})
}

func (h *SubmissionHandlers) DeleteBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.bookings.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SubmissionHandlers) ListInquiries(c *gin.Context) {
	inquiries, err := h.inquiries.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inquiries})
}

func (h *SubmissionHandlers) UpdateInquiryStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inquiry, err := h.inquiries.UpdateStatus(c.Request.Context(), middleware.PrincipalFrom(c), id, domain.InquiryStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inquiry})
}

func (h *SubmissionHandlers) DeleteInquiry(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.inquiries.Delete(c.Request.Context(), middleware.PrincipalFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
