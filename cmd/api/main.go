package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/speedernet/storefront/internal/di"
	"github.com/speedernet/storefront/internal/handlers"
	"github.com/speedernet/storefront/internal/platform/config"
	"github.com/speedernet/storefront/internal/platform/dataset"
	"github.com/speedernet/storefront/internal/platform/observability"
	"github.com/speedernet/storefront/internal/repositories/memory"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	catalog, err := dataset.Load(cfg.Catalog.Path)
	if err != nil {
		var invariant *dataset.InvariantError
		if errors.As(err, &invariant) {
			logger.Fatal("catalog dataset failed validation",
				zap.String("record", invariant.Record),
				zap.String("reason", invariant.Reason))
		}
		logger.Fatal("failed to load catalog dataset", zap.Error(err), zap.String("path", cfg.Catalog.Path))
	}

	store := memory.NewCatalogStore(catalog)
	logger.Info("catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("products", store.Len()),
		zap.Int("categories", len(catalog.Categories)))

	container, err := di.NewContainer(cfg, store)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthVersion(buildVersion()),
		handlers.WithReadinessCheck(func(ctx context.Context) error {
			if store.Len() == 0 {
				return errors.New("catalog is empty")
			}
			return nil
		}),
	)

	catalogHandlers := handlers.NewCatalogHandlers(
		container.Services.Catalog,
		cfg.Catalog.ListCacheControl,
		cfg.Catalog.FacetCacheControl,
	)
	productHandlers := handlers.NewProductHandlers(
		container.Services.Details,
		cfg.Features.RenderMarkdownDescriptions,
	)
	sessionHandlers := handlers.NewSessionHandlers(
		container.Services.Sessions,
		container.Services.Details,
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCatalogRoutes(catalogHandlers.Routes),
		handlers.WithProductRoutes(productHandlers.Routes),
		handlers.WithSessionRoutes(sessionHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("storefront api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildVersion() string {
	if version := strings.TrimSpace(os.Getenv("STOREFRONT_BUILD_VERSION")); version != "" {
		return version
	}
	return "dev"
}
