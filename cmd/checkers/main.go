// Package main runs an interactive checkers game in the terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"checkers/internal/cli"
	"checkers/internal/engine"
	"checkers/internal/logging"
	"checkers/internal/service"
	"checkers/internal/storage"
	clitransport "checkers/internal/transport/cli"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	urfave "github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func main() {
	_ = godotenv.Load()

	app := &urfave.App{
		Name:  "checkers",
		Usage: "play checkers in the terminal, alone or against the computer",
		Flags: []urfave.Flag{
			&urfave.StringFlag{
				Name:    "theme",
				Usage:   "board color theme: off, brown, green, gray (default brown on a terminal)",
				EnvVars: []string{"CHECKERS_THEME"},
			},
			&urfave.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level (debug shows engine decisions)",
				EnvVars: []string{"CHECKERS_LOG_LEVEL"},
			},
			&urfave.StringFlag{
				Name:    "storage-path",
				Usage:   "SQLite file to record games in (disabled if empty)",
				EnvVars: []string{"CHECKERS_STORAGE_PATH"},
			},
			&urfave.StringFlag{
				Name:  "history-file",
				Value: ".checkers_history",
				Usage: "readline history file",
			},
			&urfave.Int64Flag{
				Name:  "seed",
				Usage: "random seed for the easy computer player (0 uses the clock)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "checkers: %v\n", err)
		os.Exit(1)
	}
}

func run(c *urfave.Context) error {
	if err := logging.Configure(c.String("log-level"), true); err != nil {
		return err
	}

	var store *storage.Store
	if path := c.String("storage-path"); path != "" {
		var err error
		store, err = storage.NewStore(path, false)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	svc, err := service.New(store)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Shutdown(time.Second); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	var input cli.LineReader
	if interactive {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     c.String("history-file"),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()
		input = rl
	} else {
		input = cli.NewScannerReader(os.Stdin)
	}

	view := cli.New(input, os.Stdout)
	theme := cli.ColorTheme(c.String("theme"))
	if theme == "" {
		theme = cli.ThemeOff
		if term.IsTerminal(int(os.Stdout.Fd())) {
			theme = cli.ThemeBrown
		}
	}
	if err := view.SetTheme(theme); err != nil {
		return err
	}

	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	handler := clitransport.New(svc, engine.New(seed), view)
	view.ShowWelcome()
	handler.Run()
	return nil
}
