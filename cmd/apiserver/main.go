package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campolink/campolink/internal/apiserver/database"
	"github.com/campolink/campolink/internal/apiserver/handler"
	"github.com/campolink/campolink/internal/apiserver/middleware"
	"github.com/campolink/campolink/internal/apiserver/service"
	"github.com/campolink/campolink/internal/auth/jwt"
	"github.com/campolink/campolink/internal/common/cnst"
	"github.com/campolink/campolink/internal/common/config"
	"github.com/campolink/campolink/internal/realtime/hub"
	"github.com/campolink/campolink/internal/realtime/notifier"
	"github.com/campolink/campolink/pkg/logger"
	"github.com/campolink/campolink/pkg/metrics"
	"github.com/campolink/campolink/pkg/version"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of " + cnst.CommandName,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", cnst.CommandName, version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   cnst.CommandName,
		Short: "Campolink API Server",
		Long:  `Campolink API Server provides the agricultural management API and its realtime broadcast channel`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", cnst.ApiServerYaml, "path to configuration file or directory")
	rootCmd.AddCommand(versionCmd)
}

func run() {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting apiserver",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	db, err := database.NewDatabase(log, &cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database",
			zap.String("type", cfg.Database.Type),
			zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	jwtService, err := jwt.NewService(cfg.JWT)
	if err != nil {
		log.Fatal("failed to initialize jwt service", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backplane, err := notifier.NewNotifier(log, &cfg.Notifier)
	if err != nil {
		log.Fatal("failed to initialize notifier",
			zap.String("type", cfg.Notifier.Type),
			zap.Error(err))
	}

	m := metrics.New(cfg.Metrics)

	h := hub.NewHub(log, cfg.Realtime, hub.NewJWTVerifier(jwtService), backplane, m)
	if err := h.Start(ctx); err != nil {
		log.Fatal("failed to start hub", zap.Error(err))
	}

	estadoService := service.NewEstadoService(log, db, h)
	apiHandler := handler.NewHandler(log, estadoService, h)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(m.GinMiddleware())

	r.GET("/ws", h.HandleWS)
	r.GET("/health", apiHandler.Health)
	r.GET("/metrics", m.Handler())

	api := r.Group("/api", middleware.JWTAuthMiddleware(jwtService))
	api.PUT("/lotes/:id/estado", apiHandler.UpdateLoteEstado)
	api.POST("/lotes/:id/liberar", apiHandler.LiberarLote)
	api.PUT("/cultivos/:id/estado", apiHandler.UpdateCultivoEstado)
	api.PUT("/sublotes/:id/estado", apiHandler.UpdateSubloteEstado)
	api.POST("/sublotes/:id/liberar", apiHandler.LiberarSublote)
	api.GET("/realtime/stats", apiHandler.RealtimeStats)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	h.Shutdown(shutdownCtx)
	log.Info("apiserver stopped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
