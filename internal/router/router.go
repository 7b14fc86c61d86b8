package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow-backend/internal/config"
	"github.com/talentflow/talentflow-backend/internal/handler"
	"github.com/talentflow/talentflow-backend/internal/middleware"
	"github.com/talentflow/talentflow-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Assessment *handler.AssessmentHandler
	Builder    *handler.BuilderHandler
	Submission *handler.SubmissionHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the public submit endpoint.
	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow)

	// ─── 1. Assessments (Editor API) ───────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/assessments", handlers.Assessment.ListAssessments)
		api.POST("/assessments", handlers.Assessment.CreateAssessment)
		api.GET("/assessments/:id", handlers.Assessment.GetAssessment)
		api.PUT("/assessments/:id", handlers.Assessment.UpdateAssessment)
		api.DELETE("/assessments/:id", handlers.Assessment.DeleteAssessment)

		// Builder operations: whole-document persist on every edit.
		api.POST("/assessments/:id/sections", handlers.Builder.AddSection)
		api.PUT("/assessments/:id/sections/:section_id", handlers.Builder.UpdateSection)
		api.DELETE("/assessments/:id/sections/:section_id", handlers.Builder.DeleteSection)
		api.POST("/assessments/:id/sections/:section_id/questions", handlers.Builder.AddQuestion)
		api.PUT("/assessments/:id/questions/:question_id", handlers.Builder.UpdateQuestion)
		api.DELETE("/assessments/:id/questions/:question_id", handlers.Builder.DeleteQuestion)
		api.POST("/assessments/:id/questions/:question_id/move", handlers.Builder.MoveQuestion)
		api.POST("/assessments/:id/questions/:question_id/options", handlers.Builder.AddOption)
		api.PUT("/assessments/:id/questions/:question_id/options/:index", handlers.Builder.UpdateOption)
		api.DELETE("/assessments/:id/questions/:question_id/options/:index", handlers.Builder.RemoveOption)

		// Candidate-facing evaluation.
		api.POST("/assessments/:id/preview", handlers.Submission.PreviewResponses)
		api.POST("/assessments/:id/submit", submitLimiter.Middleware(), handlers.Submission.SubmitResponses)
		api.GET("/assessments/:id/submissions", handlers.Submission.ListSubmissions)
	}

	// ─── 2. WebSocket (Live Preview) ───────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/assessments/:id/preview", handlers.WS.PreviewStream)
	}

	return router
}
