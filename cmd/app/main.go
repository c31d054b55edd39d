package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"concierge/cmd/fx/agent_fx"
	"concierge/cmd/fx/chat_fx"
	"concierge/cmd/fx/config_fx"
	"concierge/cmd/fx/controllers_fx"
	"concierge/cmd/fx/db_fx"
	"concierge/cmd/fx/llm_fx"
	"concierge/cmd/fx/location_fx"
	"concierge/cmd/fx/logger_fx"
	"concierge/cmd/fx/memcache_fx"
	"concierge/internal/api/controllers"
	"concierge/internal/config"
	"concierge/pkg/middleware"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		llm_fx.Module,
		location_fx.Module,
		chat_fx.Module,
		agent_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.NewCORSHandler(cfg.CORSOrigins, engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	logger *zap.Logger,
	agentController *controllers.AgentController,
	chatController *controllers.ChatController,
	locationController *controllers.LocationController) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(gin.Recovery())

	RegisterRoutes(r, cfg, agentController, chatController, locationController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg config.Config,
	agentController *controllers.AgentController,
	chatController *controllers.ChatController,
	locationController *controllers.LocationController) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	optionalAuth := middleware.OptionalJWTMiddleware(cfg.JWTSecret)

	api := r.Group("/api")

	agents := api.Group("/agents", limiter.Limit())
	agents.POST("/neural", optionalAuth, agentController.RunNeuralAgent)
	agents.POST("/conversational", optionalAuth, agentController.RunConversationalAgent)
	agents.POST("/emotional", agentController.RunEmotionalAgent)
	agents.POST("/radar", agentController.RunRadarAgent)
	agents.GET("/location/search", locationController.SearchLocation)
	agents.GET("/location/route", locationController.GetRoute)

	api.POST("/mcp/context", limiter.Limit(), agentController.GetRecommendationContext)

	chat := api.Group("/chat", middleware.JWTAuthMiddleware(cfg.JWTSecret))
	chat.POST("/sessions", chatController.CreateSession)
	chat.GET("/sessions", chatController.ListSessions)
	chat.GET("/sessions/:sessionId", chatController.GetSession)
}
