package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todo-api/internal/auth"
	"todo-api/internal/config"
	"todo-api/internal/controller"
	"todo-api/internal/middleware"
)

// Router assembles the HTTP surface: public health endpoints and the
// authenticated per-user task routes.
func Router(cfg *config.Config, h *controller.Tasks, verifier *auth.Verifier) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.Use(middleware.Auth(verifier))
	{
		tasks := api.Group("/:user_id/tasks")
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.GET("/:id", h.Get)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
		tasks.PATCH("/:id/complete", h.ToggleComplete)
	}

	return router
}
