// Command tictactoe plays in the terminal against the computer or a friend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/jaminalder/tictactoe-minimax/internal/app"
	"github.com/jaminalder/tictactoe-minimax/internal/config"
	"github.com/jaminalder/tictactoe-minimax/internal/domain"
	"github.com/jaminalder/tictactoe-minimax/internal/tui"
)

var (
	flagConfig = flag.String("config", "", "path to a config file")
	flagMode   = flag.String("mode", "", "start immediately: computer or human")
	flagPlain  = flag.Bool("plain", false, "line mode for pipes and dumb terminals")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	mode, err := domain.ParseMode(*flagMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %q\n", err, *flagMode)
		os.Exit(2)
	}
	// the full-screen UI owns the terminal; it logs only to log.file
	logger := zap.NewNop().Sugar()
	if *flagPlain || cfg.Log.File != "" {
		if logger, err = cfg.Log.NewLogger(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	opts := app.Options{
		SettleDelay: cfg.Game.SettleDelay,
		ThinkDelay:  cfg.Game.ThinkDelay,
		Logger:      logger,
	}

	if *flagPlain {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := tui.NewPlain(os.Stdout, opts).Run(ctx, os.Stdin, mode); err != nil {
			logger.Errorw("plain mode", "error", err)
			os.Exit(1)
		}
		return
	}

	ui := tui.New(opts)
	if *flagMode != "" {
		ui.Start(mode)
	}
	if err := ui.Run(); err != nil {
		logger.Errorw("terminal ui", "error", err)
		os.Exit(1)
	}
}
