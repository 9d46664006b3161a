package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Breyner794/barber-shop/internal/offering"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
	"github.com/Breyner794/barber-shop/internal/pkg/response"
)

type Handler struct {
	service offering.Service
}

func NewHandler(service offering.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListOfferingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", "")
		return
	}
	req.Normalize()

	items, total, err := h.service.List(c.Request.Context(), offering.Filter{
		Active:   req.Active,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]OfferingResponse, len(items))
	for i, o := range items {
		resp[i] = NewOfferingResponse(o)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(resp, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateOfferingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}

	o, err := h.service.Create(c.Request.Context(), offering.CreateRequest{
		Title:           body.Title,
		DurationMinutes: body.DurationMinutes,
		Price:           body.Price,
		Includes:        body.Includes,
		Active:          active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewOfferingResponse(o))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOfferingResponse(o))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	var body UpdateOfferingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	o, err := h.service.Update(c.Request.Context(), uri.ID, offering.UpdateRequest{
		Title:           body.Title,
		DurationMinutes: body.DurationMinutes,
		Price:           body.Price,
		Includes:        body.Includes,
		Active:          body.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOfferingResponse(o))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
