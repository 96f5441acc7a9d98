package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	. "timetracker-sync/internal/config"
	"timetracker-sync/internal/routes"
	"timetracker-sync/internal/storage"
)

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")

	// Disable caching: every response here is user-specific
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

func HTTPServer() *gin.Engine {
	r := gin.Default()

	r.Use(securityHeaders)
	r.Use(routes.ErrorHandler())
	r.Use(routes.SessionMiddleware())

	return r
}

func ServerMain(ctx context.Context, storageProvider storage.Provider) {

	if Cfg == nil {
		panic("Config not initialized.")
	}

	if storageProvider == nil {
		slog.Error("Storage provider is nil")
		os.Exit(1)
	}

	server := HTTPServer()

	// Middleware to inject the storage provider into the request context
	server.Use(func(c *gin.Context) {
		c.Set("Storage", storageProvider)
		c.Next()
	})

	RegisterRoutes(server)

	if err := server.Run(Cfg.ListenAddr); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}

func RegisterRoutes(server *gin.Engine) {
	root := server.Group("/")
	routes.Health(root)

	auth := server.Group("/auth")
	routes.AuthRoutes(auth)

	// Authenticated API surface
	api := server.Group("/api")
	api.Use(routes.RequireAuth())
	routes.SyncRoutes(api)

	// The tracker redirects the browser here; the session cookie identifies
	// the user.
	oauth := server.Group("/oauth")
	oauth.Use(routes.RequireAuth())
	routes.OAuthRoutes(api, oauth)
}
