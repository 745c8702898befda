package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natasquad/buyergpt/internal/assistant"
	"github.com/natasquad/buyergpt/internal/composer"
	"github.com/natasquad/buyergpt/internal/config"
	"github.com/natasquad/buyergpt/internal/intent"
	"github.com/natasquad/buyergpt/internal/llm"
	"github.com/natasquad/buyergpt/internal/logger"
	"github.com/natasquad/buyergpt/internal/messaging"
	"github.com/natasquad/buyergpt/internal/metrics"
	"github.com/natasquad/buyergpt/internal/offers"
	"github.com/natasquad/buyergpt/internal/shopping"
	"github.com/natasquad/buyergpt/internal/shortener"
	"github.com/natasquad/buyergpt/internal/transcription"
	"github.com/natasquad/buyergpt/internal/translator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))

	log.Info("Setting Gin mode", "mode", cfg.GinMode)
	gin.SetMode(cfg.GinMode)

	// Initialize services
	completer := llm.NewClient(cfg, log)
	trans := translator.NewService(completer)
	classifier := intent.NewClassifier(completer, cfg.Persona.Prefix, log)
	shoppingService := shopping.NewService(cfg, log)
	ranker := offers.NewRanker(completer, log)
	shortenerService := shortener.NewService(cfg)
	composerService := composer.NewService(completer, trans, shortenerService, cfg.Persona.Prefix, log)
	assistantService := assistant.NewService(trans, classifier, shoppingService, ranker, composerService, log)

	messenger := messaging.NewService(cfg, log)
	transcriber := transcription.NewService(cfg, log)

	// Initialize handlers
	handler := assistant.NewHandler(assistantService, messenger, transcriber, cfg.RequestTimeout, log)

	// Initialize Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/message", handler.MessageHandler)

	port := ":" + cfg.Port
	log.Info("🛒  assistant listening on " + port)

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("✅ Server exited")
}
