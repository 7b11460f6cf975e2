package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/tradegram/backend/internal/router"
	"github.com/anonto42/tradegram/backend/pkg/config"
	"github.com/anonto42/tradegram/backend/pkg/firebase"
	"github.com/anonto42/tradegram/backend/pkg/logger"
	"github.com/anonto42/tradegram/backend/pkg/metrics"
	"github.com/anonto42/tradegram/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.Env)

	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize databases")
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{JWTSecret: cfg.JWTSecret, JWTTTL: cfg.JWTTTL}
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize Firebase")
	}
	if firebaseApp != nil {
		opts.FirebaseAuth = firebaseApp.AuthClient
	}

	repos, err := router.NewRepositories(db.Postgres, db.MongoDB)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to auto migrate models")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e)
	router.SetupRoutes(e, repos, opts)

	metricsServer := metrics.NewServer()
	go func() {
		if err := metricsServer.Start(":" + cfg.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("Metrics server stopped")
		}
	}()

	go func() {
		logrus.WithField("port", cfg.Port).Info("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Metrics server shutdown failed")
	}
}
