// Command mockbackend serves the in-process stand-in for the legal-saarthi
// backend on a local port, for trying the terminal client without the real
// service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Rajgupta764/legal-saarthi/internal/common"
	"github.com/Rajgupta764/legal-saarthi/internal/logging"
	"github.com/Rajgupta764/legal-saarthi/internal/mockbackend"
)

func main() {
	addr := flag.String("a", "localhost:5000", "listen address")
	secret := flag.String("secret", mockbackend.DefaultSecret, "HS256 signing secret; \"random\" generates one")
	ttl := flag.Duration("ttl", mockbackend.DefaultTokenTTL, "token lifetime")
	latency := flag.Duration("latency", 0, "delay added to every response")
	seed := flag.String("seed", "", "account to create at start, as name:email:phone:password")
	level := flag.String("l", "info", "log level")
	backend := flag.String("log-backend", logging.BackendZap, "log backend: slog or zap")
	flag.Parse()

	log, err := logging.New(*backend, *level, os.Stderr)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	ctx := context.Background()

	if *secret == "random" {
		if *secret, err = common.MakeRandHexString(32); err != nil {
			log.Error(ctx, "failed to generate secret", "error", err)
			os.Exit(1)
		}
		log.Info(ctx, "using a random signing secret, tokens will not survive a restart")
	}

	mb := mockbackend.New(
		mockbackend.WithSecret(*secret),
		mockbackend.WithTokenTTL(*ttl),
		mockbackend.WithLatency(*latency),
		mockbackend.WithLogger(log),
	)

	if *seed != "" {
		parts := strings.SplitN(*seed, ":", 4)
		if len(parts) != 4 {
			log.Error(ctx, "invalid -seed, want name:email:phone:password")
			os.Exit(2)
		}
		if err := mb.Seed(parts[0], parts[1], parts[2], parts[3]); err != nil {
			log.Error(ctx, "failed to seed account", "error", err)
			os.Exit(1)
		}
		log.Info(ctx, "seeded account", "email", parts[1])
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mb.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info(ctx, "starting mock backend", "addr", *addr, "api", "http://"+*addr+mockbackend.APIPrefix)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info(ctx, "server stopped")
}
