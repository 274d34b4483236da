package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	_ "fixif/docs" // swagger docs

	"fixif/internal/auth"
	"fixif/internal/cache"
	"fixif/internal/config"
	"fixif/internal/db"
	"fixif/internal/handler"
	"fixif/internal/logger"
	"fixif/internal/model"
	"fixif/internal/repository"
	"fixif/internal/router"
	"fixif/internal/service"
)

// @title Fixif Vehicle Diagnosis API
// @version 1.0
// @description Email/password authentication with stateless JWT sessions and an AI vehicle-diagnosis endpoint.
// @host localhost:4000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Auth runs only when a credential store is configured; otherwise the
	// server starts degraded and the auth routes answer 503.
	var authHandler *handler.AuthHandler
	if cfg.AuthEnabled() {
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database init failed")
		}
		if err := gormDB.AutoMigrate(&model.User{}); err != nil {
			log.Fatal().Err(err).Msg("auto-migrate failed")
		}

		userRepo := repository.NewUserRepository(gormDB)
		authService := service.NewAuthService(userRepo, jwtService, cacheClient)
		authHandler = handler.NewAuthHandler(authService)
		log.Info().Msg("database connected, auth enabled")
	} else {
		log.Warn().Msg("MYSQL_DSN is not set, auth routes disabled")
	}

	// Same for the provider credential: without it /api/diagnose reports
	// the missing key instead of the process refusing to start.
	var openaiClient *openai.Client
	if cfg.DiagnosisEnabled() {
		openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Warn().Msg("OPENAI_API_KEY is not set, diagnosis requests will fail")
	}
	diagnosisService := service.NewDiagnosisService(openaiClient, cfg.OpenAIModel, cacheClient)
	diagnosisHandler := handler.NewDiagnosisHandler(diagnosisService)

	router.Register(e, cfg, jwtService, authHandler, diagnosisHandler)

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
	}
	log.Info().Str("url", swaggerURL).Msg("swagger documentation available")

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Str("model", cfg.OpenAIModel).Msg("vehicle AI diagnosis API listening")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start failed")
	}
}
