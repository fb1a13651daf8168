package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/praveenarya123/real-time-collaborative-canvas/internal/api"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/config"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/monitor"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/protocol"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/ratelimit"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/registry"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}
	setupLogger()

	serverCfg := config.Server()
	limitsCfg := config.Limits()
	monitorCfg := config.Monitor()

	reg := registry.New()
	hub := ws.NewHub(reg)
	handler := protocol.NewHandler(reg, hub)
	hub.SetHandler(handler)
	go hub.Run()

	mon := monitor.New(reg, hub, monitor.Config{Interval: monitorCfg.Interval})
	mon.Start()
	defer mon.Stop()

	limits := ratelimit.Config{
		MessagesPerSecond: limitsCfg.MessagesPerSecond,
		Burst:             limitsCfg.Burst,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(hub, limits, c.Writer, c.Request)
	})
	api.New(hub, reg).Register(router)

	server := &http.Server{
		Addr:    ":" + serverCfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", serverCfg.Port)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger() {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
