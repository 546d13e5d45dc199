// Package main runs the timefill service: a small HTTP API that fills
// CAMIS timesheet entries through a browser session, reconciling
// requested work against the draft rows already on the sheet.
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

	"github.com/rs/zerolog"

	"github.com/entrhq/timefill/pkg/camis"
	"github.com/entrhq/timefill/pkg/config"
	"github.com/entrhq/timefill/pkg/server"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides TIMEFILL_ADDR)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides TIMEFILL_LOG_LEVEL)")
	selectorsPath := flag.String("selectors", "", "path to a YAML selector override file (overrides TIMEFILL_SELECTORS)")
	showVersion := flag.Bool("version", false, "show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "timefill - CAMIS timesheet filler\n\n")
		fmt.Fprintf(os.Stderr, "Usage: timefill [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  AD_LOGIN          automation account username (required)\n")
		fmt.Fprintf(os.Stderr, "  AD_PASSWORD       account password (optional, manual fallback when absent)\n")
		fmt.Fprintf(os.Stderr, "  AD_TOTP_SECRET    second-factor shared secret (optional, same fallback)\n")
		fmt.Fprintf(os.Stderr, "  CAMIS_URL         application URL (default %s)\n", config.DefaultURL)
		fmt.Fprintf(os.Stderr, "  TIMEFILL_ADDR     listen address (default %s)\n", config.DefaultAddr)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("timefill v%s\n", version)
		return
	}

	if err := run(*addr, *logLevel, *selectorsPath); err != nil {
		fmt.Fprintf(os.Stderr, "timefill: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, logLevel, selectorsPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if selectorsPath != "" {
		cfg.SelectorsPath = selectorsPath
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	selectors, err := cfg.Selectors()
	if err != nil {
		return err
	}

	service := camis.NewService(camis.Config{
		URL:         cfg.URL,
		Credentials: cfg.Credentials,
		Selectors:   selectors,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(service, version, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("version", version).Msg("timefill listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}

// newLogger returns a timestamped JSON logger at the given level.
func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger().
		Level(lvl), nil
}
