package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"homematch/cmd/fx/config_fx"
	"homematch/cmd/fx/controllers_fx"
	"homematch/cmd/fx/db_fx"
	"homematch/cmd/fx/logger_fx"
	"homematch/cmd/fx/memcache_fx"
	"homematch/cmd/fx/metrics_fx"
	"homematch/cmd/fx/questionnaire_fx"
	"homematch/cmd/fx/recommendation_fx"
	"homematch/internal/api/controllers"
	"homematch/internal/config"
	"homematch/internal/infra"
	"homematch/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		questionnaire_fx.Module,
		recommendation_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			logger.Info("starting HTTP server", zap.String("addr", server.Addr))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *infra.Metrics,
	questionnaireController *controllers.QuestionnaireController,
	recommendationController *controllers.RecommendationController) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.GinMiddleware())
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/", middleware.UserIDMiddleware())
	controllers.RegisterRoutes(api, questionnaireController, recommendationController)

	return r
}
