package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"airstream/internal/util"
	"airstream/services/dashboard/internal/app"
	"airstream/services/dashboard/internal/config"
	"airstream/services/dashboard/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	autoSaveInterval, err := config.ParseAutoSaveInterval(cfg.AutoSaveInterval)
	if err != nil {
		log.Fatalf("failed to parse auto-save interval: %v", err)
	}
	proxies, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	logger := util.InitLogger("dashboard", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCore, err := app.New(ctx, app.Config{
		RedisAddr:              cfg.RedisAddr,
		RedisPassword:          cfg.RedisPassword,
		RedisKeyPrefix:         cfg.RedisKeyPrefix,
		AccountEmail:           cfg.AccountEmail,
		AccountSecret:          cfg.AccountSecret,
		ResetCode:              cfg.ResetCode,
		AutoSaveInterval:       autoSaveInterval,
		PageSize:               cfg.PageSize,
		PlaceholderImageURL:    cfg.PlaceholderImageURL,
		AuthRateLimitPerMinute: cfg.AuthRateLimitPerMinute,
		Logger:                 logger,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}
	defer func() {
		if err := appCore.Close(); err != nil {
			logger.Warn("close app", "err", err)
		}
	}()

	httpServer := server.New(server.Config{
		App:              appCore,
		AuthCookieMaxAge: time.Duration(cfg.AuthCookieMaxAgeSeconds) * time.Second,
		AuthCookieSecure: cfg.AuthCookieSecure,
		TrustedProxies:   proxies,
		AllowedOrigins:   cfg.AllowedOrigins,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return appCore.AutoSaver().Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
