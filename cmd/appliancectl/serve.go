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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"appliance-manager/internal/api"
	"appliance-manager/internal/auth"
	"appliance-manager/internal/db"
	"appliance-manager/internal/notification"
	"appliance-manager/internal/store"
)

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the notification workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync()

			if !cfg.Log.Development {
				gin.SetMode(gin.ReleaseMode)
			}

			gormDB, err := db.Init(&cfg.Database, log)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			appStore := store.NewGormStore(gormDB)

			sessions, err := auth.NewSessions(cfg.Auth.Secret, cfg.Auth.SessionTTL)
			if err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			deps := api.Deps{
				Store:    appStore,
				Sessions: sessions,
				Config:   cfg,
				Log:      log,
				Registry: registry,
			}

			var pool *notification.WorkerPool
			if cfg.Push.Enabled() {
				deps.WebPush = &webpush.Options{
					VAPIDPublicKey:  cfg.Push.PublicKey,
					VAPIDPrivateKey: cfg.Push.PrivateKey,
					Subscriber:      cfg.Push.Subject,
					TTL:             cfg.Push.TTL,
				}
				pool = notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, deps.WebPush, log, registry)
				pool.Start(ctx)
				deps.Pool = pool
				log.Info("notification workers started", zap.Int("size", cfg.WorkerPool.Size))
			} else {
				log.Warn("VAPID keys are not configured, push notifications are disabled")
			}

			router, err := api.NewRouter(deps)
			if err != nil {
				return err
			}
			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-stop:
				log.Info("shutdown signal received, stopping services")
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("HTTP server: %w", err)
				}
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("HTTP server shutdown: %w", err)
			}

			cancel()
			if pool != nil {
				pool.Wait()
			}
			log.Info("server gracefully stopped")
			return nil
		},
	}
}

func migrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Sync()

			if _, err := db.Init(&cfg.Database, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date.")
			return nil
		},
	}
}
