package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/HRP-2025/directory-service/internal/events"
	"github.com/HRP-2025/directory-service/internal/repositories"
	"github.com/HRP-2025/directory-service/internal/services"
	"github.com/HRP-2025/directory-service/internal/utils"
)

type HandlerManager struct {
	employeeHandler *EmployeeHandler
	eventsHandler   *EventsHandler
	serviceManager  services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	repo repositories.EmployeeRepository,
	stream *events.ChannelPublisher,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		employeeHandler: NewEmployeeHandler(serviceManager.Directory(), serviceManager.Export(), repo, logger),
		eventsHandler:   NewEventsHandler(stream, logger),
		serviceManager:  serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		employees := v1.Group("/employees")
		{
			employees.GET("", hm.employeeHandler.ListEmployees)
			employees.POST("", hm.employeeHandler.CreateEmployee)
			employees.GET("/:id", hm.employeeHandler.GetEmployee)
			employees.PUT("/:id", hm.employeeHandler.UpdateEmployee)
			employees.DELETE("/:id", hm.employeeHandler.DeleteEmployee)
			employees.POST("/:id/deactivate", hm.employeeHandler.DeactivateEmployee)
		}

		v1.GET("/departments", hm.employeeHandler.ListDepartments)
		v1.GET("/stats", hm.employeeHandler.GetStats)
		v1.GET("/export/:format", hm.employeeHandler.ExportEmployees)
		v1.POST("/refresh", hm.employeeHandler.RefreshEmployees)
		v1.GET("/events", hm.eventsHandler.StreamEvents)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "directory-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "directory-service",
		})
	})
}
