// Command server serves tic-tac-toe over HTTP with htmx, SSE and websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/config"
	"github.com/jaminalder/tictactoe-minimax/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := app.NewService(app.Settings{
		SettleDelay: cfg.Game.SettleDelay,
		ThinkDelay:  cfg.Game.ThinkDelay,
		Logger:      logger,
	})
	go svc.RunReaper(ctx, time.Minute, cfg.Game.IdleTimeout)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(svc, web.Options{Logger: logger, Heartbeat: cfg.Server.Heartbeat}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		logger.Info("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("shutdown", "error", err)
		}
	}()

	logger.Infof("server is running on %s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("failed to start server", "error", err)
	}
}
