// Package main runs the checkers HTTP API server and its database tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkers/internal/engine"
	"checkers/internal/http"
	"checkers/internal/logging"
	"checkers/internal/processor"
	"checkers/internal/service"
	"checkers/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const gracefulShutdownTimeout = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
	}

	app := &cli.App{
		Name:  "checkers-server",
		Usage: "checkers game API with computer opponents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"CHECKERS_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "log-pretty",
				Usage:   "human readable logs instead of JSON",
				EnvVars: []string{"CHECKERS_LOG_PRETTY"},
			},
		},
		Before: func(c *cli.Context) error {
			return logging.Configure(c.String("log-level"), c.Bool("log-pretty"))
		},
		Commands: []*cli.Command{
			serveCommand(),
			dbCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("checkers-server")
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-host", Value: "localhost", EnvVars: []string{"CHECKERS_API_HOST"}},
			&cli.IntFlag{Name: "api-port", Value: 8080, EnvVars: []string{"CHECKERS_API_PORT"}},
			&cli.BoolFlag{Name: "dev", Usage: "development mode (relaxed rate limits)"},
			&cli.StringFlag{
				Name:    "storage-path",
				Usage:   "path to SQLite database file (disables persistence if empty)",
				EnvVars: []string{"CHECKERS_STORAGE_PATH"},
			},
			&cli.StringFlag{Name: "pid", Usage: "optional path to write PID file"},
			&cli.BoolFlag{Name: "pid-lock", Usage: "lock PID file to allow only one instance (requires --pid)"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed for the easy computer player (0 uses the clock)"},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	pidPath, pidLock := c.String("pid"), c.Bool("pid-lock")
	if pidLock && pidPath == "" {
		return fmt.Errorf("--pid-lock requires --pid")
	}
	if pidPath != "" {
		cleanup, err := managePIDFile(pidPath, pidLock)
		if err != nil {
			return fmt.Errorf("failed to manage PID file: %w", err)
		}
		defer cleanup()
		log.Info().Str("path", pidPath).Bool("lock", pidLock).Msg("PID file created")
	}

	dev := c.Bool("dev")

	var store *storage.Store
	if path := c.String("storage-path"); path != "" {
		log.Info().Str("path", path).Msg("initializing persistent storage")
		var err error
		store, err = storage.NewStore(path, dev)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	} else {
		log.Info().Msg("persistent storage disabled (use --storage-path to enable)")
	}

	svc, err := service.New(store)
	if err != nil {
		return err
	}

	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	proc := processor.New(svc, engine.New(seed))
	app := http.NewFiberApp(proc, svc, dev)

	addr := fmt.Sprintf("%s:%d", c.String("api-host"), c.Int("api-port"))
	go func() {
		log.Info().
			Str("addr", "http://"+addr).
			Bool("dev", dev).
			Str("storage", svc.GetStorageHealth()).
			Msg("checkers API listening")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("API server listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	// release long polls first so the HTTP shutdown is not held by them
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("service shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
	return nil
}
