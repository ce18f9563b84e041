package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/greatwok/cache"
	"github.com/ray-remotestate/greatwok/config"
	"github.com/ray-remotestate/greatwok/database"
	"github.com/ray-remotestate/greatwok/objectstore"
	"github.com/ray-remotestate/greatwok/server"
)

const shutdownTimeOut = 10 * time.Second

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration, error: %v", err)
	}
	config.ConfigureLogger(cfg)

	if err := database.ConnectAndMigrate(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}); err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Info("migration is successful")

	setupCache(cfg)
	setupObjectStore(cfg)

	srv := server.SetupRoutes(server.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", func() {
		if dropped := srv.Limiter.Cleanup(); dropped > 0 {
			logrus.WithField("dropped", dropped).Debug("pruned idle rate limit buckets")
		}
	}); err != nil {
		logrus.Panicf("failed to schedule limiter cleanup, error: %v", err)
	}
	if _, err := scheduler.AddFunc("@every 5m", database.LogStats); err != nil {
		logrus.Panicf("failed to schedule pool stats, error: %v", err)
	}
	scheduler.Start()

	go func() {
		if err := srv.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("failed to run server, error: %v", err)
		}
	}()
	logrus.Infof("server is listening on :%s", cfg.Port)

	<-done
	logrus.Info("shutting down...")

	var result *multierror.Error
	if err := srv.Shutdown(shutdownTimeOut); err != nil {
		result = multierror.Append(result, fmt.Errorf("http server: %w", err))
	}
	<-scheduler.Stop().Done()
	if err := cache.Default.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("cache: %w", err))
	}
	if objectstore.Default != nil {
		if err := objectstore.Default.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("object store: %w", err))
		}
	}
	if err := database.ShutdownDatabase(); err != nil {
		result = multierror.Append(result, fmt.Errorf("database: %w", err))
	}

	if err := result.ErrorOrNil(); err != nil {
		logrus.WithError(err).Error("shutdown finished with errors")
		os.Exit(1)
	}
	logrus.Info("system is shut ..zzz")
}

func setupCache(cfg *config.Config) {
	if cfg.RedisURL == "" {
		cache.Default = cache.NewLocal(cache.DefaultSize, cfg.CacheTTL)
		logrus.Info("using in-process catalog cache")
		return
	}

	rc, err := cache.NewRedis(context.Background(), cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, falling back to in-process catalog cache")
		cache.Default = cache.NewLocal(cache.DefaultSize, cfg.CacheTTL)
		return
	}
	cache.Default = rc
	logrus.Info("using redis catalog cache")
}

func setupObjectStore(cfg *config.Config) {
	if !cfg.UploadsEnabled() {
		logrus.Warn("GCS settings missing, image uploads are disabled")
		return
	}

	store, err := objectstore.NewGCS(context.Background(), objectstore.GCSConfig{
		ProjectID:   cfg.GCSProjectID,
		ClientEmail: cfg.GCSClientEmail,
		PrivateKey:  cfg.GCSPrivateKey,
		Bucket:      cfg.GCSBucketName,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to create object store, image uploads are disabled")
		return
	}
	objectstore.Default = store
}
