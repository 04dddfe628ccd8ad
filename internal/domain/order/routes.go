package order

import (
	"github.com/gin-gonic/gin"

	"venuebook/internal/middleware"
)

// RegisterRoutes registers order, assignment, calendar and dashboard routes
// on an authenticated group
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	orders := r.Group("/orders")
	{
		orders.GET("", handler.List)
		orders.POST("", handler.Create)
		orders.GET("/availability", handler.Availability)
		orders.GET("/:id", handler.Get)
		orders.PUT("/:id", handler.Update)
		orders.PATCH("/:id/status", handler.UpdateStatus)
		orders.DELETE("/:id", middleware.AdminOnly(), handler.Delete)
		orders.GET("/:id/beos", handler.ListBeos)
		orders.POST("/:id/beos", handler.CreateBeo)
	}

	beos := r.Group("/beos")
	{
		beos.GET("", handler.List)
		beos.GET("/:id", handler.GetBeo)
		beos.PUT("/:id", handler.UpdateBeo)
		beos.DELETE("/:id", middleware.AdminOnly(), handler.DeleteBeo)
	}

	r.GET("/calendars", handler.Calendar)
	r.GET("/dashboard", handler.Dashboard)
}
