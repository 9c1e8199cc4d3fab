package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/safetracker_system/internal/models"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичные маршруты
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/login", h.login)
	}
	api.POST("/complaints", h.createComplaint)
	api.GET("/system/health", h.healthCheck)

	// Маршруты, требующие сессии
	authed := api.Group("")
	authed.Use(JWTAuthMiddleware(h.cfg, h.logger))
	{
		profile := authed.Group("/profile")
		{
			profile.GET("", h.getProfile)
			profile.PUT("", h.updateProfile)
		}

		incidents := authed.Group("/incidents")
		{
			incidents.GET("/:id", h.getIncident)

			// Операции репортера
			incidents.POST("", RequireRole(h.logger, models.RoleUser), h.reportIncident)
			incidents.GET("/my", RequireRole(h.logger, models.RoleUser), h.listMyIncidents)
			incidents.PUT("/:id", RequireRole(h.logger, models.RoleUser), h.updateIncident)
			incidents.DELETE("/:id", RequireRole(h.logger, models.RoleUser), h.deleteIncident)
			incidents.PUT("/:id/confirm", RequireRole(h.logger, models.RoleUser), h.confirmIncident)

			// Операции волонтера
			incidents.GET("/available", RequireRole(h.logger, models.RoleVolunteer), h.listAvailableIncidents)
			incidents.GET("/assigned", RequireRole(h.logger, models.RoleVolunteer), h.listAssignedIncidents)
			incidents.PUT("/:id/accept", RequireRole(h.logger, models.RoleVolunteer), h.acceptIncident)
			incidents.PUT("/:id/advance", RequireRole(h.logger, models.RoleVolunteer), h.advanceIncident)
			incidents.PUT("/:id/location", RequireRole(h.logger, models.RoleVolunteer), h.updateLiveLocation)

			// Полный список только для администратора
			incidents.GET("", RequireRole(h.logger, models.RoleAdmin), h.listIncidents)
		}

		admin := authed.Group("/admin")
		admin.Use(RequireRole(h.logger, models.RoleAdmin))
		{
			admin.GET("/users", h.listUsers)
			admin.PUT("/users/:id/approve", h.approveVolunteer)
			admin.DELETE("/users/:id", h.deleteUser)
			admin.GET("/stats", h.getStats)
			admin.GET("/complaints", h.listComplaints)
			admin.DELETE("/complaints/:id", h.deleteComplaint)
		}
	}
}
