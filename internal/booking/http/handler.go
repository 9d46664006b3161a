package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Breyner794/barber-shop/internal/booking"
	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
	"github.com/Breyner794/barber-shop/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func badQuery(c *gin.Context, field string) {
	response.Error(c, apperror.New(http.StatusBadRequest, apperror.KindInvalidInput, "invalid query parameters").WithField(field))
}

// Availability backs GET /availability.
func (h *Handler) Availability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badQuery(c, "")
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), booking.AvailabilityQuery{
		ResourceID: req.Resource,
		ServiceID:  req.Service,
		Date:       req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(req, slots))
}

// AvailableDays backs GET /availability/days.
func (h *Handler) AvailableDays(c *gin.Context) {
	var req AvailableDaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badQuery(c, "days")
		return
	}

	days, err := h.service.GetAvailableDays(c.Request.Context(), booking.DaysQuery{
		ResourceID: req.Resource,
		ServiceID:  req.Service,
		From:       req.From,
		Days:       req.Days,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DayResponse, len(days))
	for i, d := range days {
		items[i] = DayResponse{Date: d.Date, Slots: d.Slots}
	}
	c.JSON(http.StatusOK, gin.H{"days": items})
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", "")
		return
	}
	if !req.Valid() {
		response.BadRequest(c, "start_time_from must not be after start_time_to", "start_time_from")
		return
	}
	req.Normalize()

	items, total, err := h.service.List(c.Request.Context(), req.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]ReservationResponse, len(items))
	for i, r := range items {
		resp[i] = NewReservationResponse(r)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(resp, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body ReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	r, err := h.service.Book(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(r))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	r, err := h.service.Get(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

// Update replaces the reservation with the submitted form.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	var body ReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	r, err := h.service.Update(c.Request.Context(), uri.ID, body)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) ChangeState(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	var body ChangeStateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "state is required", "state")
		return
	}

	r, err := h.service.ChangeState(c.Request.Context(), uri.ID, body.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	r, err := h.service.Cancel(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	if err := h.service.Remove(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
