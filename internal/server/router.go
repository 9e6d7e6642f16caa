package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/fivetoolhq/fivetool-backend/internal/handlers"
	"github.com/fivetoolhq/fivetool-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AuthMiddleware    *middleware.AuthMiddleware
	SessionHandler    *handlers.SessionHandler
	TemplateHandler   *handlers.TemplateHandler
	AssessmentHandler *handlers.AssessmentHandler
	AwardHandler      *handlers.AwardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Templates
	api.GET("/templates", cfg.TemplateHandler.ListAgeGroups)
	api.GET("/templates/:ageGroup", cfg.TemplateHandler.ListSections)
	api.GET("/templates/:ageGroup/:evalType", cfg.TemplateHandler.GetSection)

	// Sessions
	api.POST("/sessions", cfg.SessionHandler.Create)
	api.GET("/sessions/:id", cfg.SessionHandler.Get)
	api.PATCH("/sessions/:id", cfg.SessionHandler.Patch)
	api.POST("/sessions/:id/finalize", cfg.SessionHandler.Finalize)
	api.GET("/sessions/:id/completeness", cfg.SessionHandler.Completeness)
	api.GET("/sessions/:id/assessments", cfg.SessionHandler.ListAssessments)

	// Assessments
	api.GET("/assessments/:id", cfg.AssessmentHandler.Get)
	api.GET("/assessments/:id/score", cfg.AssessmentHandler.GetScore)

	// Players
	api.GET("/players/:id/assessments", cfg.AssessmentHandler.ListByPlayer)
	api.GET("/players/:id/awards", cfg.AwardHandler.ListPlayerAwards)

	// Teams
	api.GET("/teams/:id/awards", cfg.AwardHandler.ListTeamAwards)
	api.GET("/teams/:id/stats", cfg.AwardHandler.GetTeamStats)

	return router
}
