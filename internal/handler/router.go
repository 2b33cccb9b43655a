package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"onevsone/voting/internal/config"
	"onevsone/voting/internal/handler/middleware"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	votingHandler *VotingHandler,
	adminHandler *AdminHandler,
	qrHandler *QRHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Voter-facing routes; every one is gated by the token query parameter
	// or body field, nothing else.
	api := r.Group("/api/v1")
	{
		api.GET("/voting/session", votingHandler.Session)
		api.GET("/players", votingHandler.ListPlayers)
		api.POST("/voting/vote", votingHandler.CastVote)
		api.GET("/results", votingHandler.Results)
		api.GET("/results/live", votingHandler.LiveResults)
		api.GET("/qr", qrHandler.Generate)
	}

	// Admin routes. Possession of the admin URL is the only gate, matching
	// the deployment this backs (a single short-lived event).
	admin := r.Group("/api/v1/admin")
	{
		admin.POST("/players", adminHandler.CreatePlayer)
		admin.GET("/players", adminHandler.ListPlayers)
		admin.GET("/players/:id", adminHandler.GetPlayer)
		admin.PUT("/players/:id", adminHandler.UpdatePlayer)
		admin.DELETE("/players/:id", adminHandler.DeletePlayer)

		admin.POST("/tokens", adminHandler.MintTokens)
		admin.GET("/tokens", adminHandler.ListTokens)
	}

	return r
}
