package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Breyner794/barber-shop/internal/barber"
	fileHttp "github.com/Breyner794/barber-shop/internal/file/http"
	"github.com/Breyner794/barber-shop/internal/pkg/request"
	"github.com/Breyner794/barber-shop/internal/pkg/response"
)

const maxPhotoBytes = 5 << 20

var photoTypes = []string{"image/jpeg", "image/png", "image/gif"}

type Handler struct {
	service     barber.Service
	fileHandler *fileHttp.Handler
}

func NewHandler(service barber.Service, fileHandler *fileHttp.Handler) *Handler {
	return &Handler{
		service:     service,
		fileHandler: fileHandler,
	}
}

func toResponses(barbers []*barber.Barber) []BarberResponse {
	items := make([]BarberResponse, len(barbers))
	for i, b := range barbers {
		items[i] = NewBarberResponse(b)
	}
	return items
}

func (h *Handler) List(c *gin.Context) {
	var req ListBarbersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", "")
		return
	}
	req.Normalize()

	barbers, total, err := h.service.List(c.Request.Context(), barber.Filter{
		SiteID:   req.SiteID,
		Active:   req.Active,
		Name:     req.Name,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(toResponses(barbers), req.Page, req.PageSize, total))
}

// ListBySite backs GET /sites/:id/barbers.
func (h *Handler) ListBySite(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid site id", "id")
		return
	}

	barbers, err := h.service.ListBySite(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toResponses(barbers)})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBarberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	// New barbers are active unless stated otherwise
	active := true
	if body.Active != nil {
		active = *body.Active
	}

	b, err := h.service.Create(c.Request.Context(), barber.CreateRequest{
		Name:   body.Name,
		SiteID: body.SiteID,
		Active: active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBarberResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBarberResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	var body UpdateBarberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", "")
		return
	}

	b, err := h.service.Update(c.Request.Context(), uri.ID, barber.UpdateRequest{
		Name:   body.Name,
		SiteID: body.SiteID,
		Active: body.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBarberResponse(b))
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

// UploadPhoto stores a profile photo and points the barber at it.
func (h *Handler) UploadPhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", "id")
		return
	}

	// Fail before touching storage
	if _, err := h.service.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.fileHandler.HandleFileUpload(c, fileHttp.FileUploadConfig{
		OwnerID:      uri.ID,
		MaxSizeBytes: maxPhotoBytes,
		AllowedTypes: photoTypes,
		ResizeImage:  true,
		AfterUpload: func(ctx context.Context, fileID string) error {
			return h.service.SetPhoto(ctx, uri.ID, fileID)
		},
	})
}
