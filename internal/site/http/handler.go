package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Breyner794/barber-shop/internal/pkg/request"
	"github.com/Breyner794/barber-shop/internal/pkg/response"
	"github.com/Breyner794/barber-shop/internal/site"
)

type SiteHandler struct {
	service site.Service
}

func NewHandler(service site.Service) *SiteHandler {
	return &SiteHandler{service: service}
}

// List retrieves a paginated list of sites with optional keyword search.
func (h *SiteHandler) List(c *gin.Context) {
	var req ListSitesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", "")
		return
	}
	req.Normalize()

	sites, total, err := h.service.List(c.Request.Context(), site.SiteFilter{
		Keyword:  req.Q,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SiteResponse, len(sites))
	for i, s := range sites {
		items[i] = NewSiteResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *SiteHandler) Create(c *gin.Context) {
	var body CreateSiteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	hours, field, err := body.Hours.ToDomain()
	if err != nil {
		response.BadRequest(c, err.Error(), field)
		return
	}

	s, err := h.service.Create(c.Request.Context(), site.CreateSiteRequest{
		Name:     body.Name,
		Address:  body.Address,
		Phone:    body.Phone,
		Timezone: body.Timezone,
		Hours:    hours,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSiteResponse(s))
}

func (h *SiteHandler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSiteResponse(s))
}

func (h *SiteHandler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	var body UpdateSiteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	req := site.UpdateSiteRequest{
		Name:     body.Name,
		Address:  body.Address,
		Phone:    body.Phone,
		Timezone: body.Timezone,
	}
	if body.Hours != nil {
		hours, field, err := body.Hours.ToDomain()
		if err != nil {
			response.BadRequest(c, err.Error(), field)
			return
		}
		req.Hours = &hours
	}

	s, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSiteResponse(s))
}

func (h *SiteHandler) Delete(c *gin.Context) {
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
