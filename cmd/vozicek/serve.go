package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/vozicek/internal/api"
	"github.com/erazemk/vozicek/internal/auth"
	"github.com/erazemk/vozicek/internal/logger"
	"github.com/erazemk/vozicek/internal/scheduler"
	"github.com/erazemk/vozicek/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API with the daily backup and digest jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()
			return runServer(cmd.Context(), a)
		},
	}
}

func runServer(parent context.Context, a *app) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.AllowDemoSeed {
		seeded, err := store.SeedDemo(ctx, a.db)
		if err != nil {
			return err
		}
		if seeded {
			a.log.Info().Msg("demo data seeded")
		}
	}

	jwtSecret := a.cfg.JWTSecret
	if jwtSecret == "" {
		secret, err := store.GetJWTSecret(ctx, a.db)
		if err != nil {
			return err
		}
		jwtSecret = secret
	}

	sched := scheduler.New(a.db, scheduler.Config{
		BackupDir:  a.cfg.BackupDir,
		BackupCron: a.cfg.BackupCron,
		DigestCron: a.cfg.DigestCron,
	}, logger.Named(a.log, "scheduler"))

	// Catch up on a missed backup before taking traffic.
	if _, err := sched.Backup(ctx); err != nil {
		a.log.Error().Err(err).Msg("startup backup failed")
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	handler := api.NewRouter(api.Deps{
		DB:             a.db,
		JWTSecret:      jwtSecret,
		Gate:           auth.NewPasswordGate(a.cfg.AppPassword, a.cfg.AppPasswordHash),
		SnapshotMaxAge: a.cfg.SnapshotMaxAge,
		Log:            logger.Named(a.log, "http"),
	})

	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		a.log.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	a.log.Info().Str("addr", a.cfg.Addr).Msg("server started")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	a.log.Info().Msg("server stopped, closing database")
	return nil
}
