package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/app"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-kpi-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	kpiHandler := appHTTP.NewKpiHandler(application.KpiService)
	router := appHTTP.NewRouter(log, application.JWTService, kpiHandler, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.KPI.ComputeTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server running", "addr", server.Addr, "cache_driver", cfg.KPI.CacheDriver, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server stopped")
}
