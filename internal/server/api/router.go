// Package api is the HTTP surface of the Research Hub server: gin router,
// handlers, session middleware, and the wire error shape.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dr-Stone27/Researchub/internal/logging"
	"github.com/Dr-Stone27/Researchub/internal/server/config"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
	"github.com/Dr-Stone27/Researchub/internal/server/services"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	config *config.Config
	srv    *http.Server
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	log logging.Logger,
	accountService *services.AccountService,
	researchService *services.ResearchService,
	catalogService *services.CatalogService,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	// Create handlers
	authHandler := NewAuthHandler(accountService)
	researchHandler := NewResearchHandler(researchService)
	catalogHandler := NewCatalogHandler(catalogService)

	sessionAuth := SessionAuth([]byte(cfg.SecretKey), func(c *gin.Context, id string) (*models.Account, error) {
		return accountService.GetByID(c.Request.Context(), id)
	})

	api := router.Group("/api")
	{
		// Public endpoints
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.GET("/verify-email", authHandler.VerifyEmail)
			auth.POST("/resend-verification", authHandler.ResendVerification)
			auth.POST("/login", authHandler.Login)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// Session-protected endpoints
		protected := api.Group("")
		protected.Use(sessionAuth)
		{
			research := protected.Group("/research")
			{
				research.POST("", researchHandler.Create)
				research.GET("", researchHandler.ListMine)
				research.GET("/:id", researchHandler.Get)
				research.GET("/:id/download", researchHandler.Download)
				research.DELETE("/:id", researchHandler.Delete)
			}

			protected.GET("/library", researchHandler.Library)

			protected.GET("/tags", catalogHandler.ListTags)
			protected.POST("/tags", catalogHandler.SuggestTag)

			protected.GET("/notifications", catalogHandler.ListNotifications)
			protected.POST("/notifications/:id/read", catalogHandler.MarkNotificationRead)

			protected.GET("/resources", catalogHandler.ListResources)
			protected.POST("/resources", catalogHandler.CreateResource)
		}
	}

	// Health check
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return &Server{
		router: router,
		config: cfg,
		srv: &http.Server{
			Addr:    cfg.EndpointAddrHTTP,
			Handler: router,
		},
	}
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
