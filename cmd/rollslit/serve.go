package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/piwi3910/RollSlit/internal/api"
	"github.com/piwi3910/RollSlit/internal/lp/glpk"
	"github.com/piwi3910/RollSlit/internal/metrics"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default ~/.rollslit/config.yaml)")
	listen := fs.String("listen", "", "listen address, overrides the config")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	runTTL := fs.Duration("run-ttl", api.DefaultRunTTL, "how long finished runs stay retrievable")
	maxDuration := fs.Duration("max-duration", 5*time.Minute, "per request time limit, 0 for none")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, log, err := loadConfig(*configPath, *logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	addr := cfg.Listen
	if *listen != "" {
		addr = *listen
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	apiCfg := api.Config{
		Settings:    cfg.Settings,
		LengthScale: cfg.Import.LengthScale,
		Logger:      log,
		Recorder:    metrics.NewRecorder(nil),
		RunTTL:      *runTTL,
		MaxDuration: *maxDuration,
	}
	if glpk.Available {
		apiCfg.Solver = glpk.New()
	}
	srv := &http.Server{
		Addr:        addr,
		Handler:     api.NewServer(apiCfg).Router(),
		ReadTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info("server started", zap.String("addr", addr), zap.Bool("glpk", glpk.Available))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
