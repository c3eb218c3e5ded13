package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lumina-market/backend/internal/auth"
	"github.com/lumina-market/backend/internal/cart"
	"github.com/lumina-market/backend/internal/httpapi"
	"github.com/lumina-market/backend/internal/order"
	"github.com/lumina-market/backend/internal/search"
	"github.com/lumina-market/backend/internal/store"
	"github.com/lumina-market/backend/pkg/config"
	"github.com/lumina-market/backend/pkg/keyedmutex"
	"github.com/lumina-market/backend/pkg/logger"
	"github.com/lumina-market/backend/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "lumina-market",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("mongo connection failed", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("connected to mongodb", slog.String("database", cfg.MongoDB))

	products := store.NewProductStore(db)
	users := store.NewUserStore(db)
	carts := store.NewCartStore(db)
	orders := store.NewOrderStore(db)

	// One resolver for the process lifetime. No API key means AI search is
	// permanently disabled and every query takes the text fallback; that is
	// a supported configuration, not a startup failure.
	var resolver search.Resolver
	if cfg.GeminiAPIKey != "" {
		resolver = search.NewGeminiResolver(cfg.GeminiAPIKey, log)
		log.Info("gemini resolver enabled")
	} else {
		log.Warn("GEMINI_API_KEY not set, ai search will fall back to text search")
	}

	locks := keyedmutex.New()

	authSvc := auth.NewService(users, []byte(cfg.JWTSecret), log)
	searchSvc := search.NewService(products, resolver, log)
	cartSvc := cart.NewService(products, carts, locks, log)
	orderSvc := order.NewService(carts, products, orders, locks, log)

	handlers := httpapi.NewHandlers(authSvc, searchSvc, cartSvc, orderSvc, products, log)
	router := httpapi.NewRouter(handlers, []byte(cfg.JWTSecret))

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // ai search can wait on the provider
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}
	log.Info("bye")
}
