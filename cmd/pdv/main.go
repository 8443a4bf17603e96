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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pdv_desk/internal/bridge"
	"pdv_desk/internal/config"
	"pdv_desk/internal/gateway"
	"pdv_desk/internal/localstore"
	"pdv_desk/internal/remote"
	"pdv_desk/pkg/utils"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	utils.InitLogger(cfg.LogLevel, true)
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	store, err := localstore.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open local database")
	}
	defer store.Close()

	client := remote.NewClient(cfg.ServerURL, cfg.HTTPTimeout, remote.CircuitBreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		OpenTimeout:      cfg.Breaker.OpenTimeout,
	})
	if err := client.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("server_url", cfg.ServerURL).Msg("Remote store unreachable, starting in local mode")
	}

	gw := gateway.New(store, client)
	if user, err := gw.RestoreSession(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to restore session")
	} else if user != nil {
		log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("Session restored")
	}

	srv := &http.Server{
		Addr:         cfg.BridgeAddr,
		Handler:      bridge.NewEngine(bridge.New(gw)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.BridgeAddr).Str("server_url", cfg.ServerURL).Msg("PDV bridge listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("bridge server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down bridge")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
