package handlers

import (
	"focus_engine/internal/logger"
	"focus_engine/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// snapshot stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/devices", h.registerDevice)
		auth.POST("/token", h.issueToken)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requirePairedDevice)
	{
		h.registerTimerRoutes(api)
		h.registerPostureRoutes(api)
		h.registerCommandRoutes(api)
		h.registerSessionRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerTimerRoutes(api *gin.RouterGroup) {
	timer := api.Group("/timer")
	{
		// Body example: {"category":{"id":"c1","label":"reading","color":"#3366FF"}}
		timer.POST("/start", h.startTimer)
		timer.POST("/pause", h.pauseTimer)
		timer.POST("/toggle", h.toggleTimer)
		timer.POST("/stop", h.stopTimer)
		timer.POST("/mode", h.setMode)
		timer.POST("/foreground", h.foreground)
		timer.GET("/state", h.getTimerState)
	}
}

func (h *Handler) registerPostureRoutes(api *gin.RouterGroup) {
	posture := api.Group("/posture")
	{
		posture.POST("/observations", h.postObservation)
		posture.GET("/status", h.getPostureStatus)
		posture.GET("/report", h.getPostureReport)
	}
}

func (h *Handler) registerCommandRoutes(api *gin.RouterGroup) {
	commands := api.Group("/commands")
	{
		commands.POST("", h.submitCommand)
		commands.GET("", h.getCommandSlot)
	}
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	sessions := api.Group("/sessions")
	{
		sessions.GET("", h.listSessions)
		sessions.GET("/:id", h.getSession)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
