package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dzwave.net/regdoc/config"
	"dzwave.net/regdoc/handlers"
	"dzwave.net/regdoc/middleware"
	"dzwave.net/regdoc/pkg/docgen"
	"dzwave.net/regdoc/pkg/dolibarr"
	"dzwave.net/regdoc/pkg/storage"
	"dzwave.net/regdoc/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	middleware.Init(cfg.JWTSecret)

	db, err := config.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	files := storage.New(cfg.GeneratedDir)
	renderer := docgen.NewRenderer(docgen.DefaultRegistry(cfg.TemplatesDir))
	directory := dolibarr.NewClient(dolibarr.Config{
		BaseURL: cfg.DolibarrAPIURL,
		APIKey:  cfg.DolibarrAPIKey,
		Enabled: cfg.DolibarrEnabled,
	}, logger)
	docs := docgen.NewService(db, files, directory, renderer, logger)
	api := handlers.New(db, docs, files, directory, logger)

	handler := enableCORS(routes.RegisterRoutes(api, cfg.GeneratedDir))
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port),
			zap.Bool("dolibarr_enabled", directory.Enabled()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
