package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	avail := g.Group("/availability")
	{
		avail.GET("", h.Availability)
		avail.GET("/days", h.AvailableDays)
	}

	group := g.Group("/reservations")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.PATCH("/:id/state", h.ChangeState)
		group.POST("/:id/cancel", h.Cancel)
		group.DELETE("/:id", h.Delete)
	}
}
