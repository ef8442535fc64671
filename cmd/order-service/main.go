package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bazaarkit/bazaar-order-service/internal/app/background"
	"github.com/bazaarkit/bazaar-order-service/internal/app/setup"
	httpdelivery "github.com/bazaarkit/bazaar-order-service/internal/delivery/http"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/migrate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}

	if deps.Config.OrderDB.MigrationPath != "" {
		if err := migrate.RunMigrations(deps.DB, deps.Config.OrderDB.MigrationPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	useCases := setup.InitializeUseCases(deps)

	tasks := background.NewBackgroundTasks(useCases.OrderUsecase)
	if err := tasks.Start(); err != nil {
		log.Fatalf("failed to start background tasks: %v", err)
	}

	shipments := background.NewShipmentConsumer(useCases.OrderUsecase, deps.Subscriber)
	if err := shipments.Start(); err != nil {
		log.Fatalf("failed to start shipment consumer: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	server := httpdelivery.NewServer(useCases.OrderUsecase, useCases.ProofUsecase)
	server.RegisterRoutes(e)

	addr := fmt.Sprintf("%s:%s", deps.Config.HTTPServer.Host, deps.Config.HTTPServer.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()
	slog.Info("order service started", slog.String("addr", addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shipments.Stop()
	tasks.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", slog.Any("error", err))
	}
	if err := deps.Publisher.Close(); err != nil {
		slog.Error("kafka publisher close failed", slog.Any("error", err))
	}
}
