package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voyatra/tripbook/internal/domain"
	"github.com/voyatra/tripbook/internal/service/booking"
)

// The HTTP layer trusts the X-User-ID header set by the auth gateway upstream.
const userIDHeader = "X-User-ID"

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.POST("/bulk", h.createBulk)
	router.POST("/:id/payment", h.pay)
	router.DELETE("/:id", h.cancel)
	router.GET("/:id/group", h.group)
}

type createBookingRequest struct {
	Kind       string                   `json:"kind"`
	ResourceID int64                    `json:"resource_id"`
	OwnerName  string                   `json:"owner_name"`
	Passenger  *booking.PassengerInput  `json:"passenger,omitempty"`
	Stay       *booking.HotelStayInput  `json:"stay,omitempty"`
}

type createBulkBookingRequest struct {
	Kind       string                   `json:"kind"`
	ResourceID int64                    `json:"resource_id"`
	OwnerName  string                   `json:"owner_name"`
	Passengers []booking.PassengerInput `json:"passengers"`
	Stay       *booking.HotelStayInput  `json:"stay,omitempty"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type bookingResponse struct {
	ID                 int64               `json:"id"`
	OwnerID            string              `json:"owner_id"`
	Kind               string              `json:"kind"`
	ResourceID         int64               `json:"resource_id"`
	Trip               domain.TripSnapshot `json:"trip"`
	TotalAmountCents   int64               `json:"total_amount_cents"`
	Status             string              `json:"status"`
	PaymentStatus      string              `json:"payment_status"`
	PaymentRef         string              `json:"payment_ref,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	CancelledAt        string              `json:"cancelled_at,omitempty"`
	BookedAt           string              `json:"booked_at"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:                 b.ID,
		OwnerID:            b.OwnerID,
		Kind:               string(b.Kind),
		ResourceID:         b.ResourceID,
		Trip:               b.Trip,
		TotalAmountCents:   b.TotalAmountCents,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentRef:         b.PaymentRef,
		CancellationReason: b.CancellationReason,
		BookedAt:           b.BookedAt.Format(time.RFC3339),
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

func ownerID(c *gin.Context) (string, bool) {
	owner := c.GetHeader(userIDHeader)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return "", false
	}
	return owner, true
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}

func (h *BookingHandler) create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		Kind:       domain.ResourceKind(req.Kind),
		ResourceID: req.ResourceID,
		OwnerID:    owner,
		OwnerName:  req.OwnerName,
		Passenger:  req.Passenger,
		Stay:       req.Stay,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) createBulk(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req createBulkBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBulkBooking(c.Request.Context(), booking.CreateBulkBookingInput{
		Kind:       domain.ResourceKind(req.Kind),
		ResourceID: req.ResourceID,
		OwnerID:    owner,
		OwnerName:  req.OwnerName,
		Passengers: req.Passengers,
		Stay:       req.Stay,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(created))
	for i := range created {
		resp = append(resp, toBookingResponse(&created[i]))
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) pay(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := bookingID(c)
	if !ok {
		return
	}

	paid, err := h.service.ProcessPayment(c.Request.Context(), id, owner)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(paid))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	cancelled, err := h.service.CancelBooking(c.Request.Context(), id, owner, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) group(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	group, err := h.service.FindGroup(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(group))
	for i := range group {
		resp = append(resp, toBookingResponse(&group[i]))
	}
	c.JSON(http.StatusOK, resp)
}
