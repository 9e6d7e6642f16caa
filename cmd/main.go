package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fivetoolhq/fivetool-backend/internal/db"
	"github.com/fivetoolhq/fivetool-backend/internal/handlers"
	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/middleware"
	"github.com/fivetoolhq/fivetool-backend/internal/observability"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/rules"
	"github.com/fivetoolhq/fivetool-backend/internal/server"
	"github.com/fivetoolhq/fivetool-backend/internal/services"
	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/utils"
)

const serviceName = "fivetool-backend"

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Warn("Otel shutdown failed", "error", err)
			}
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)
	scoreCacheTTL := utils.GetEnvAsInt("SCORE_CACHE_TTL", 3600, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	sessionRepo := repos.NewSessionRepo(thePG, log)
	assessmentRepo := repos.NewAssessmentRepo(thePG, log)
	definitionRepo := repos.NewDefinitionRepo(thePG, log)
	grantRepo := repos.NewGrantRepo(thePG, log)
	playerRepo := repos.NewPlayerRepo(thePG, log)

	// Template registry + scoring rule table
	registry := templates.NewRegistry()
	ruleTable := rules.LoadDefault()
	if rulesPath := os.Getenv("RULES_PATH"); rulesPath != "" {
		loaded, lerr := rules.Load(rulesPath)
		if lerr != nil {
			log.Fatal("Rule table load failed", "path", rulesPath, "error", lerr)
		}
		ruleTable = loaded
	}
	log.Info("Rule table ready", "version", ruleTable.Version())

	if err := db.SeedAwardDefinitions(ctx, definitionRepo, registry, log); err != nil {
		log.Fatal("Award definition seed failed", "error", err)
	}

	// Redis (optional; scoring falls back to recomputation without it)
	var scoreCache services.ScoreCache = services.NewNoopScoreCache()
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if perr := rdb.Ping(ctx).Err(); perr != nil {
			log.Warn("Redis unreachable, score caching disabled", "addr", redisAddr, "error", perr)
		} else {
			scoreCache = services.NewRedisScoreCache(rdb, time.Duration(scoreCacheTTL)*time.Second, log)
			log.Info("Redis score cache enabled", "addr", redisAddr)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	sessionService := services.NewSessionService(thePG, log, sessionRepo, registry)
	scoringService := services.NewScoringService(thePG, log, registry, ruleTable, assessmentRepo, definitionRepo, grantRepo, scoreCache)
	finalizeService := services.NewFinalizeService(thePG, log, sessionRepo, assessmentRepo, registry, scoringService)
	assessmentService := services.NewAssessmentService(thePG, log, assessmentRepo)
	awardService := services.NewAwardService(thePG, log, grantRepo)
	rosterService := services.NewRosterService(thePG, log, playerRepo)
	teamStatsService := services.NewTeamStatsService(thePG, log, rosterService, assessmentRepo, scoringService)

	// Handlers
	log.Info("Setting up Handlers from main...")
	sessionHandler := handlers.NewSessionHandler(sessionService, finalizeService, assessmentService)
	templateHandler := handlers.NewTemplateHandler(registry)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService, scoringService)
	awardHandler := handlers.NewAwardHandler(awardService, teamStatsService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ServiceName:       serviceName,
		AuthMiddleware:    authMiddleware,
		SessionHandler:    sessionHandler,
		TemplateHandler:   templateHandler,
		AssessmentHandler: assessmentHandler,
		AwardHandler:      awardHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
