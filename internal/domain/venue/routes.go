package venue

import (
	"github.com/gin-gonic/gin"

	"venuebook/internal/middleware"
)

// RegisterRoutes registers venue routes on an authenticated group
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	venues := r.Group("/venues")
	{
		venues.GET("", handler.List)
		venues.GET("/:id", handler.Get)
		venues.POST("", handler.Create)
		venues.PUT("/:id", handler.Update)
		venues.DELETE("/:id", middleware.AdminOnly(), handler.Delete)
	}
}
