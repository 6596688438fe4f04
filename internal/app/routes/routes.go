package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/burak/univote/internal/app/controllers"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	electionController *controllers.ElectionController,
	votingController *controllers.VotingController,
	resultsController *controllers.ResultsController,
	aiController *controllers.AIController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/admin/login", authController.AdminLogin)
		auth.POST("/admin/refresh", authController.RefreshToken)
		// Voter login is rate limited per IP to slow credential guessing.
		auth.POST("/voter/login",
			middleware.RateLimit(rate.Every(time.Minute/10), 5),
			authController.VoterLogin)
		auth.POST("/voter/logout", authController.VoterLogout)
	}

	// --- Admin routes (JWT) ---
	admin := v1.Group("")
	admin.Use(authMiddleware.AdminAuth())
	{
		elections := admin.Group("/elections")
		{
			elections.POST("", electionController.CreateElection)
			elections.GET("", electionController.ListElections)
			elections.GET("/:id", electionController.GetElection)
			elections.PUT("/:id/state", electionController.UpdateElectionState)
			elections.DELETE("/:id", electionController.DeleteElection)
			elections.GET("/:id/candidates", electionController.ListCandidates)
		}

		positions := admin.Group("/positions")
		{
			positions.POST("", electionController.CreatePosition)
			positions.GET("", electionController.ListPositions)
			positions.DELETE("/:id", electionController.DeletePosition)
		}

		candidates := admin.Group("/candidates")
		{
			candidates.POST("", electionController.CreateCandidate)
			candidates.DELETE("/:id", electionController.DeleteCandidate)
		}

		voters := admin.Group("/voters")
		{
			voters.POST("", electionController.RegisterVoter)
			voters.GET("", electionController.ListVoters)
		}

		admin.POST("/ai/index-manifesto", aiController.IndexManifesto)
		admin.POST("/ai/regenerate-faq", aiController.RegenerateFAQ)
	}

	// --- Voter routes (session token) ---
	voting := v1.Group("/voting")
	voting.Use(authMiddleware.VoterAuth())
	{
		voting.GET("/elections/:id/positions", votingController.GetBallot)
		voting.POST("/cast", votingController.CastBallot)
	}

	// --- Public routes ---
	v1.GET("/elections/:id/results", resultsController.GetResults)
	v1.POST("/ai/manifesto-qa", aiController.AskQuestion)
	v1.GET("/ai/faq", aiController.GetFAQ)

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
