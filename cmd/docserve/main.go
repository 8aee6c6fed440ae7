package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"

	"docserve/internal/config"
	"docserve/internal/server"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fatal := color.New(color.FgRed)

	cfg, err := config.Load(filepath.Base(os.Args[0]), args, os.Stderr)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		fatal.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	srv, err := server.New(cfg.Root,
		server.WithLogger(logger),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			absRoot, _ := filepath.Abs(cfg.Root)
			fatal.Fprintf(os.Stderr, "Directory not found: %s\n", absRoot)
		} else {
			fatal.Fprintf(os.Stderr, "failed to initialize server: %v\n", err)
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	color.New(color.FgGreen).Printf("Serving %s at http://localhost:%d\n", srv.Root(), cfg.Port)
	logger.Debug("listening", "addr", cfg.Addr())

	if err := srv.Run(ctx, cfg.Addr()); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}

	return 0
}
