package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/connect4-engine/internal/config"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/cleanup"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	transportHttp "github.com/iamasit07/connect4-engine/internal/transport/http"
	"github.com/iamasit07/connect4-engine/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-engine/internal/transport/websocket"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.AppConfig
	gin.SetMode(cfg.GinMode)

	// 1. Services
	sessionManager := game.NewSessionManager(bot.NewEngine())
	connManager := websocket.NewConnectionManager()
	sessionManager.OnRemove(func(sessionID string) {
		connManager.DisconnectSession(sessionID, "Session closed")
	})

	router := newRouter(cfg, sessionManager, connManager)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	// 2. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.SessionIdleTimeout, cfg.CleanupInterval)
	g.Go(func() error {
		return cleanupWorker.Start(gCtx)
	})

	// 3. HTTP server
	g.Go(func() error {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("Server exited gracefully")
	return nil
}

func newRouter(cfg *config.Config, sm *game.SessionManager, cm *websocket.ConnectionManager) *gin.Engine {
	defaultDifficulty := bot.ParseDifficulty(cfg.BotDifficulty)

	gameHandler := transportHttp.NewGameHandler(sm, defaultDifficulty)
	wsHandler := websocket.NewHandler(cm, sm, websocket.Options{
		AllowedOrigins:    cfg.AllowedOrigins,
		DefaultDifficulty: defaultDifficulty,
		AIMoveDelay:       cfg.AIMoveDelay,
		MessagesPerSecond: cfg.WSMessagesPerSecond,
		MessageBurst:      cfg.WSMessageBurst,
	})

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	gameHandler.Register(router)

	// WebSocket Route (origin checked by the upgrader)
	router.GET("/ws", gin.WrapF(wsHandler.HandleWebSocket))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"sessions":    sm.Count(),
			"connections": cm.Count(),
		})
	})

	return router
}
