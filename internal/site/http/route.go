package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *SiteHandler) {
	group := g.Group("/sites")
	{
		group.GET("", h.List)          // List sites
		group.GET("/:id", h.Get)       // Get site details
		group.POST("", h.Create)       // Create site
		group.PATCH("/:id", h.Update)  // Update site
		group.DELETE("/:id", h.Delete) // Delete site
	}
}
