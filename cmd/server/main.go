package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/AquilaXk/aquila-log/blog/application"
	"github.com/AquilaXk/aquila-log/blog/domain"
	"github.com/AquilaXk/aquila-log/internal/config"
	"github.com/AquilaXk/aquila-log/internal/middleware"
	"github.com/AquilaXk/aquila-log/internal/rest"
	"github.com/AquilaXk/aquila-log/shared/notion"
	"github.com/AquilaXk/aquila-log/shared/render"
	webhookhttp "github.com/AquilaXk/aquila-log/webhook/http"
)

const (
	defaultConfigPath = "config.yaml"
	shutdownTimeout   = 5 * time.Second
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	notionClient := notion.NewClient(
		&http.Client{Timeout: cfg.Notion.Timeout()},
		cfg.Notion.BaseURL,
		cfg.Notion.Token,
	)

	postService := application.NewPostService(notionClient, notionClient, notion.ImageMapper{}, cfg.Notion.PageID)
	defer func() {
		if err := postService.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to gracefully close post service")
		}
	}()

	cache := application.NewPostCache(postService, cfg.Cache.TTL())

	var invalidator domain.PathInvalidator = render.LogInvalidator{}
	if cfg.Revalidate.TargetURL != "" {
		invalidator = render.NewHTTPInvalidator(nil, cfg.Revalidate.TargetURL)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(r, cache)
	webhookhttp.NewRevalidateHandler(cfg.Revalidate.Token, cache, invalidator).RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + fmt.Sprint(cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
